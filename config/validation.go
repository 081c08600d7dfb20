package config

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ethan-root/Dataworks/internal/errors"
)

func validateDataWorks(conf *DataWorks) error {
	return requireEnv(map[string]interface{}{
		EnvAccessKeyID:        conf.AccessKeyID,
		EnvAccessKeySecret:    conf.AccessKeySecret,
		EnvRegion:             conf.Region,
		EnvDataWorksProjectID: conf.ProjectID,
	})
}

func validateMaxCompute(conf *MaxCompute) error {
	return requireEnv(map[string]interface{}{
		EnvAccessKeyID:        conf.AccessKeyID,
		EnvAccessKeySecret:    conf.AccessKeySecret,
		EnvMaxComputeProject:  conf.Project,
		EnvMaxComputeEndpoint: conf.Endpoint,
	})
}

// requireEnv keys the validation errors by variable name so the message tells the
// operator exactly what to export
func requireEnv(values map[string]interface{}) error {
	errs := validation.Errors{}
	for name, value := range values {
		errs[name] = validation.Validate(value, validation.Required)
	}
	if err := errs.Filter(); err != nil {
		return errors.MissingConfig(entityEnvironment, err.Error())
	}
	return nil
}
