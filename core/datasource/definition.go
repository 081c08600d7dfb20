package datasource

import (
	"encoding/json"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ethan-root/Dataworks/config"
	"github.com/ethan-root/Dataworks/ext/dataworks"
	"github.com/ethan-root/Dataworks/internal/errors"
	"github.com/ethan-root/Dataworks/internal/models"
)

const (
	EnvTypeDev  = "Dev"
	EnvTypeProd = "Prod"

	EndpointModeSelfAdaption = "SelfAdaption"
	EndpointModeCustom       = "Custom"

	AuthTypePrimaryAccount = "PrimaryAccount"
)

// Definition is everything CreateDataSource needs for one datasource
type Definition struct {
	Name        string
	Type        models.DatasourceType
	Description string
	Properties  map[string]interface{}
}

// OSS connects with the access key pair of the caller, the environment defaults to Dev
func OSS(ds models.OSSDatasource, creds config.Credentials) (Definition, error) {
	if err := ds.Validate(); err != nil {
		return Definition{}, errors.InvalidArgument(models.DatasourceOSS.String()+" datasource", err.Error())
	}
	if err := validation.Validate(creds.AccessKeyID, validation.Required); err != nil {
		return Definition{}, errors.MissingConfig(models.DatasourceOSS.String()+" datasource", config.EnvAccessKeyID+" is required")
	}
	if err := validation.Validate(creds.AccessKeySecret, validation.Required); err != nil {
		return Definition{}, errors.MissingConfig(models.DatasourceOSS.String()+" datasource", config.EnvAccessKeySecret+" is required")
	}

	envType := ds.EnvType
	if envType == "" {
		envType = EnvTypeDev
	}
	return Definition{
		Name:        ds.Name,
		Type:        models.DatasourceOSS,
		Description: ds.Description,
		Properties: map[string]interface{}{
			"endpoint":  ds.Endpoint,
			"bucket":    ds.Bucket,
			"accessId":  creds.AccessKeyID,
			"accessKey": creds.AccessKeySecret,
			"envType":   envType,
		},
	}, nil
}

// MaxCompute relies on the workspace account, the endpoint is resolved by the region
// unless one is given
func MaxCompute(ds models.MaxComputeDatasource, region string) (Definition, error) {
	if err := ds.Validate(); err != nil {
		return Definition{}, errors.InvalidArgument(models.DatasourceODPS.String()+" datasource", err.Error())
	}

	envType := ds.EnvType
	if envType == "" {
		envType = EnvTypeProd
	}
	props := map[string]interface{}{
		"project":      ds.Project,
		"envType":      envType,
		"regionId":     region,
		"endpointMode": EndpointModeSelfAdaption,
		"authType":     AuthTypePrimaryAccount,
	}
	if ds.Endpoint != "" {
		props["endpointMode"] = EndpointModeCustom
		props["endpoint"] = ds.Endpoint
	}
	return Definition{
		Name:        ds.Name,
		Type:        models.DatasourceODPS,
		Description: ds.Description,
		Properties:  props,
	}, nil
}

// Request encodes the definition, properties are encoded with sorted keys
func (d Definition) Request() (dataworks.CreateDataSourceRequest, error) {
	props, err := json.Marshal(d.Properties)
	if err != nil {
		return dataworks.CreateDataSourceRequest{}, errors.InvalidArgument(d.Name, "error encoding connection properties: "+err.Error())
	}
	return dataworks.CreateDataSourceRequest{
		Name:                     d.Name,
		Type:                     d.Type.String(),
		Description:              d.Description,
		ConnectionPropertiesMode: dataworks.ConnectionModeURL,
		ConnectionProperties:     string(props),
	}, nil
}

// Redacted returns the properties safe to print
func (d Definition) Redacted() map[string]interface{} {
	redacted := make(map[string]interface{}, len(d.Properties))
	for key, value := range d.Properties {
		if key == "accessKey" {
			value = "******"
		}
		redacted[key] = value
	}
	return redacted
}
