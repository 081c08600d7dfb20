package node

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ethan-root/Dataworks/internal/errors"
	"github.com/ethan-root/Dataworks/internal/models"
	"github.com/ethan-root/Dataworks/utils"
)

const (
	DefaultCron          = "00 00 00 * * ?"
	DefaultRerunMode     = "Allowed"
	DefaultRerunTimes    = 3
	DefaultRerunInterval = 180000
	DefaultTimezone      = "Asia/Shanghai"
	DefaultStartTime     = "1970-01-01 00:00:00"
	DefaultEndTime       = "9999-01-01 00:00:00"

	DefaultFileFormat     = "csv"
	DefaultFieldDelimiter = ","
	DefaultEncoding       = "UTF-8"

	BizdatePartitionValue = "'${bizdate}'"

	entityNode = "node"
)

var (
	rerunModes  = []interface{}{"Allowed", "Denied", "FailureAllowed"}
	fileFormats = []interface{}{"csv", "text", "json", "parquet", "orc"}

	// formats whose files describe their own fields, columns are mapped by name
	namedColumnFormats = []string{"parquet", "orc"}
)

// Build assembles the node envelope and its embedded data integration job. The result
// only depends on cfg.
func Build(cfg models.NodeConfig) (*Spec, error) {
	cfg = withDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}

	content, err := json.Marshal(buildJob(cfg))
	if err != nil {
		return nil, errors.InvalidArgument(entity(cfg), "error encoding job content: "+err.Error())
	}

	return &Spec{
		Version: FlowSpecVersion,
		Kind:    FlowSpecKind,
		Spec: Workflow{
			Nodes: []*Node{
				{
					Name:          cfg.NodeName,
					Owner:         cfg.Owner,
					Description:   cfg.Description,
					Recurrence:    "Normal",
					InstanceMode:  "T+1",
					RerunMode:     cfg.RerunMode,
					RerunTimes:    DefaultRerunTimes,
					RerunInterval: DefaultRerunInterval,
					Timeout:       cfg.Timeout,
					Trigger: Trigger{
						Type:      "Scheduler",
						Cron:      cfg.Cron,
						StartTime: DefaultStartTime,
						EndTime:   DefaultEndTime,
						Timezone:  DefaultTimezone,
					},
					RuntimeResource: RuntimeResource{ResourceGroup: cfg.ResourceGroup},
					Script: Script{
						Path:    cfg.NodeName,
						Runtime: Runtime{Command: "DI"},
						Content: string(content),
					},
				},
			},
		},
	}, nil
}

// PartitionExpression binds a bare partition column to the bizdate of the run,
// an expression that already assigns a value is kept as is
func PartitionExpression(partition string) string {
	partition = strings.TrimSpace(partition)
	if partition == "" || strings.Contains(partition, "=") {
		return partition
	}
	return partition + "=" + BizdatePartitionValue
}

func withDefaults(cfg models.NodeConfig) models.NodeConfig {
	cfg.NodeName = strings.TrimSpace(cfg.NodeName)
	if cfg.Cron == "" {
		cfg.Cron = DefaultCron
	}
	if cfg.RerunMode == "" {
		cfg.RerunMode = DefaultRerunMode
	}
	cfg.Reader.Format = strings.ToLower(cfg.Reader.Format)
	if cfg.Reader.Format == "" {
		cfg.Reader.Format = DefaultFileFormat
	}
	if cfg.Reader.FieldDelimiter == "" {
		cfg.Reader.FieldDelimiter = DefaultFieldDelimiter
	}
	if cfg.Reader.Encoding == "" {
		cfg.Reader.Encoding = DefaultEncoding
	}
	return cfg
}

func validate(cfg models.NodeConfig) error {
	if err := cfg.Validate(); err != nil {
		return errors.InvalidArgument(entity(cfg), err.Error())
	}
	err := validation.Errors{
		"cron":           validation.Validate(cfg.Cron, validation.By(utils.CronIntervalValidator)),
		"rerun_mode":     validation.Validate(cfg.RerunMode, validation.In(rerunModes...)),
		"resource_group": validation.Validate(cfg.ResourceGroup, validation.Required),
		"reader.format":  validation.Validate(cfg.Reader.Format, validation.In(fileFormats...)),
	}.Filter()
	if err != nil {
		return errors.InvalidArgument(entity(cfg), err.Error())
	}
	return nil
}

func buildJob(cfg models.NodeConfig) Job {
	return Job{
		Type:    JobType,
		Version: JobVersion,
		Steps: []Step{
			{
				StepType:  "oss",
				Parameter: readerParameter(cfg.Reader),
				Name:      ReaderStepName,
				Category:  "reader",
			},
			{
				StepType:  "odps",
				Parameter: writerParameter(cfg.Reader.Columns, cfg.Writer),
				Name:      WriterStepName,
				Category:  "writer",
			},
		},
		Setting: JobSetting{
			Speed:      Speed{Channel: 1, Throttle: false},
			ErrorLimit: ErrorLimit{Record: 0},
		},
		Order: JobOrder{
			Hops: []Hop{{From: ReaderStepName, To: WriterStepName}},
		},
	}
}

func readerParameter(reader models.ReaderConfig) ReaderParameter {
	param := ReaderParameter{
		Datasource: reader.Datasource,
		Object:     []string{reader.Path},
		FileFormat: reader.Format,
	}

	byName := utils.ContainsString(namedColumnFormats, reader.Format)
	for i, c := range reader.Columns {
		value := strconv.Itoa(i)
		if byName {
			value = c.Name
		}
		param.Column = append(param.Column, ReaderColumn{Type: c.Type, Value: value})
	}
	if !byName {
		param.FieldDelimiter = reader.FieldDelimiter
		param.Encoding = reader.Encoding
	}
	return param
}

func writerParameter(columns []models.Column, writer models.WriterConfig) WriterParameter {
	truncate := true
	if writer.Truncate != nil {
		truncate = *writer.Truncate
	}
	param := WriterParameter{
		Datasource: writer.Datasource,
		Table:      writer.Table,
		Partition:  PartitionExpression(writer.Partition),
		Truncate:   truncate,
	}
	for _, c := range columns {
		param.Column = append(param.Column, c.Name)
	}
	return param
}

func entity(cfg models.NodeConfig) string {
	if cfg.NodeName == "" {
		return entityNode
	}
	return fmt.Sprintf("%s %s", entityNode, cfg.NodeName)
}
