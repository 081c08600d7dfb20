package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Schedule struct {
	Cron      string `mapstructure:"Cron" json:"Cron"`
	RerunMode string `mapstructure:"RerunMode" json:"RerunMode"`
	Timeout   int    `mapstructure:"Timeout" json:"Timeout"`
}

type OSSConfig struct {
	DataSourceName string `mapstructure:"DataSourceName" json:"DataSourceName"`
	Endpoint       string `mapstructure:"Endpoint" json:"Endpoint"`
	Bucket         string `mapstructure:"Bucket" json:"Bucket"`
	BasePath       string `mapstructure:"BasePath" json:"BasePath"`
}

type MaxComputeConfig struct {
	DataSourceName string `mapstructure:"DataSourceName" json:"DataSourceName"`
	ProjectName    string `mapstructure:"ProjectName" json:"ProjectName"`
	Endpoint       string `mapstructure:"Endpoint" json:"Endpoint"`
}

// Table is one synchronized table of a project, it becomes one node
type Table struct {
	Name           string   `mapstructure:"Name" json:"Name"`
	OSSObject      string   `mapstructure:"OSS_Object" json:"OSS_Object"`
	FileFormat     string   `mapstructure:"FileFormat" json:"FileFormat"`
	Partition      string   `mapstructure:"Partition" json:"Partition"`
	Columns        []Column `mapstructure:"Columns" json:"Columns"`
	FieldDelimiter string   `mapstructure:"FieldDelimiter" json:"FieldDelimiter"`
	Encoding       string   `mapstructure:"Encoding" json:"Encoding"`
}

// Project is the deployable unit read from a project directory
type Project struct {
	ProjectName   string           `mapstructure:"ProjectName" json:"ProjectName"`
	Owner         string           `mapstructure:"Owner" json:"Owner"`
	ResourceGroup string           `mapstructure:"ResourceGroup" json:"ResourceGroup"`
	Schedule      Schedule         `mapstructure:"Schedule" json:"Schedule"`
	OSS           OSSConfig        `mapstructure:"OSS" json:"OSS"`
	MaxCompute    MaxComputeConfig `mapstructure:"MaxCompute" json:"MaxCompute"`
	Tables        []Table          `mapstructure:"Tables" json:"Tables"`
}

func (p Project) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ProjectName, validation.Required),
		validation.Field(&p.Tables, validation.Required, validation.Each(validation.By(validateTable))),
		validation.Field(&p.OSS, validation.By(func(interface{}) error {
			return validation.Validate(p.OSS.DataSourceName, validation.Required.Error("DataSourceName cannot be blank"))
		})),
		validation.Field(&p.MaxCompute, validation.By(func(interface{}) error {
			return validation.Validate(p.MaxCompute.DataSourceName, validation.Required.Error("DataSourceName cannot be blank"))
		})),
	)
}

// NodeName is the node a table is deployed as
func (p Project) NodeName(t Table) string {
	return p.ProjectName + "_" + t.Name
}

// NodeConfigs expands the project into one node config per table
func (p Project) NodeConfigs() []NodeConfig {
	nodes := make([]NodeConfig, len(p.Tables))
	for i, t := range p.Tables {
		nodes[i] = NodeConfig{
			NodeName:      p.NodeName(t),
			Owner:         p.Owner,
			Cron:          p.Schedule.Cron,
			ResourceGroup: p.ResourceGroup,
			RerunMode:     p.Schedule.RerunMode,
			Timeout:       p.Schedule.Timeout,
			Reader: ReaderConfig{
				Datasource:     p.OSS.DataSourceName,
				Path:           p.OSS.BasePath + t.OSSObject,
				Format:         t.FileFormat,
				Columns:        t.Columns,
				FieldDelimiter: t.FieldDelimiter,
				Encoding:       t.Encoding,
			},
			Writer: WriterConfig{
				Datasource: p.MaxCompute.DataSourceName,
				Table:      t.Name,
				Partition:  t.Partition,
			},
		}
	}
	return nodes
}

func validateTable(value interface{}) error {
	t, _ := value.(Table)
	return validation.ValidateStruct(&t,
		validation.Field(&t.Name, validation.Required),
	)
}
