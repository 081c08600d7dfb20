package node

import "encoding/json"

const (
	FlowSpecVersion = "1.1.0"
	FlowSpecKind    = "CycleWorkflow"

	JobType    = "job"
	JobVersion = "2.0"

	ReaderStepName = "Reader"
	WriterStepName = "Writer"
)

// Spec is the scheduling envelope sent as the Spec of CreateNode and UpdateNode
type Spec struct {
	Version string   `json:"version"`
	Kind    string   `json:"kind"`
	Spec    Workflow `json:"spec"`
}

type Workflow struct {
	Nodes []*Node `json:"nodes"`
}

type Node struct {
	Name            string          `json:"name"`
	Owner           string          `json:"owner,omitempty"`
	Description     string          `json:"description,omitempty"`
	Recurrence      string          `json:"recurrence"`
	InstanceMode    string          `json:"instanceMode"`
	RerunMode       string          `json:"rerunMode"`
	RerunTimes      int             `json:"rerunTimes"`
	RerunInterval   int             `json:"rerunInterval"`
	Timeout         int             `json:"timeout"`
	Trigger         Trigger         `json:"trigger"`
	RuntimeResource RuntimeResource `json:"runtimeResource"`
	Script          Script          `json:"script"`
}

type Trigger struct {
	Type      string `json:"type"`
	Cron      string `json:"cron"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Timezone  string `json:"timezone"`
}

type RuntimeResource struct {
	ResourceGroup string `json:"resourceGroup"`
}

type Script struct {
	Path    string  `json:"path"`
	Runtime Runtime `json:"runtime"`
	// Content is the JSON encoded Job
	Content string `json:"content"`
}

type Runtime struct {
	Command string `json:"command"`
}

// Job is the data integration job run by the node
type Job struct {
	Type    string     `json:"type"`
	Version string     `json:"version"`
	Steps   []Step     `json:"steps"`
	Setting JobSetting `json:"setting"`
	Order   JobOrder   `json:"order"`
}

type Step struct {
	StepType  string      `json:"stepType"`
	Parameter interface{} `json:"parameter"`
	Name      string      `json:"name"`
	Category  string      `json:"category"`
}

type ReaderParameter struct {
	Datasource     string         `json:"datasource"`
	Object         []string       `json:"object"`
	Column         []ReaderColumn `json:"column,omitempty"`
	FileFormat     string         `json:"fileFormat"`
	FieldDelimiter string         `json:"fieldDelimiter,omitempty"`
	Encoding       string         `json:"encoding,omitempty"`
}

// ReaderColumn points at a source field, Value is the field name for self describing
// formats and the zero based field index for delimited text
type ReaderColumn struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type WriterParameter struct {
	Datasource string   `json:"datasource"`
	Table      string   `json:"table"`
	Column     []string `json:"column,omitempty"`
	Partition  string   `json:"partition,omitempty"`
	Truncate   bool     `json:"truncate"`
}

type JobSetting struct {
	Speed      Speed      `json:"speed"`
	ErrorLimit ErrorLimit `json:"errorLimit"`
}

type Speed struct {
	Channel  int  `json:"channel"`
	Throttle bool `json:"throttle"`
}

type ErrorLimit struct {
	Record int `json:"record"`
}

type JobOrder struct {
	Hops []Hop `json:"hops"`
}

type Hop struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Marshal encodes the spec, equal specs always encode to identical bytes
func (s *Spec) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// Node returns the single node of the envelope
func (s *Spec) Node() *Node {
	if len(s.Spec.Nodes) == 0 {
		return nil
	}
	return s.Spec.Nodes[0]
}
