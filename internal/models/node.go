package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Column is a single field moved by the reader and writer steps
type Column struct {
	Name string `mapstructure:"name" json:"name"`
	Type string `mapstructure:"type" json:"type"`
}

// ReaderConfig describes the object storage side of a sync node
type ReaderConfig struct {
	Datasource     string   `mapstructure:"datasource" json:"datasource"`
	Path           string   `mapstructure:"path" json:"path"`
	Format         string   `mapstructure:"format" json:"format"`
	Columns        []Column `mapstructure:"columns" json:"columns"`
	FieldDelimiter string   `mapstructure:"field_delimiter" json:"field_delimiter"`
	Encoding       string   `mapstructure:"encoding" json:"encoding"`
}

func (r ReaderConfig) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Datasource, validation.Required),
		validation.Field(&r.Path, validation.Required),
		validation.Field(&r.Columns, validation.Each(validation.By(validateColumn))),
	)
}

// WriterConfig describes the warehouse side of a sync node
type WriterConfig struct {
	Datasource string `mapstructure:"datasource" json:"datasource"`
	Table      string `mapstructure:"table" json:"table"`
	Partition  string `mapstructure:"partition" json:"partition"`
	Truncate   *bool  `mapstructure:"truncate" json:"truncate"`
}

func (w WriterConfig) Validate() error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.Datasource, validation.Required),
		validation.Field(&w.Table, validation.Required),
	)
}

// NodeConfig is the merged configuration of one scheduled data integration node
type NodeConfig struct {
	NodeName      string       `mapstructure:"node_name" json:"node_name"`
	Owner         string       `mapstructure:"owner" json:"owner"`
	Description   string       `mapstructure:"description" json:"description"`
	Cron          string       `mapstructure:"cron" json:"cron"`
	ResourceGroup string       `mapstructure:"resource_group" json:"resource_group"`
	RerunMode     string       `mapstructure:"rerun_mode" json:"rerun_mode"`
	Timeout       int          `mapstructure:"timeout" json:"timeout"`
	Reader        ReaderConfig `mapstructure:"reader" json:"reader"`
	Writer        WriterConfig `mapstructure:"writer" json:"writer"`
}

func (n NodeConfig) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.NodeName, validation.Required),
		validation.Field(&n.Timeout, validation.Min(0)),
		validation.Field(&n.Reader),
		validation.Field(&n.Writer),
	)
}

func validateColumn(value interface{}) error {
	c, _ := value.(Column)
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
	)
}
