package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type DatasourceType string

const (
	DatasourceOSS  DatasourceType = "oss"
	DatasourceODPS DatasourceType = "odps"
)

func (d DatasourceType) String() string {
	return string(d)
}

// OSSDatasource is read from oss-datasource.json
type OSSDatasource struct {
	Name        string `mapstructure:"name" json:"name"`
	Endpoint    string `mapstructure:"endpoint" json:"endpoint"`
	Bucket      string `mapstructure:"bucket" json:"bucket"`
	Description string `mapstructure:"description" json:"description"`
	EnvType     string `mapstructure:"env_type" json:"env_type"`
}

func (d OSSDatasource) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required),
		validation.Field(&d.Endpoint, validation.Required),
		validation.Field(&d.Bucket, validation.Required),
	)
}

// MaxComputeDatasource is read from maxcompute-datasource.json
type MaxComputeDatasource struct {
	Name        string `mapstructure:"name" json:"name"`
	Project     string `mapstructure:"project" json:"project"`
	Endpoint    string `mapstructure:"endpoint" json:"endpoint"`
	Description string `mapstructure:"description" json:"description"`
	EnvType     string `mapstructure:"env_type" json:"env_type"`
}

func (d MaxComputeDatasource) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required),
		validation.Field(&d.Project, validation.Required),
	)
}
