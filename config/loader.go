package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/ethan-root/Dataworks/internal/errors"
)

const entityEnvironment = "environment"

// LoadDataWorksConfig reads the DataWorks credentials, region and workspace id from env.
// Every variable is required, the error names all of the missing ones.
func LoadDataWorksConfig() (*DataWorks, error) {
	cfg := &DataWorks{}
	v := newEnvViper(EnvAccessKeyID, EnvAccessKeySecret, EnvRegion, EnvDataWorksProjectID)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.InvalidArgument(entityEnvironment, EnvDataWorksProjectID+" must be an integer: "+err.Error())
	}
	cfg.AccessKeyID = strings.TrimSpace(cfg.AccessKeyID)
	cfg.AccessKeySecret = strings.TrimSpace(cfg.AccessKeySecret)
	cfg.Region = strings.TrimSpace(cfg.Region)

	if err := validateDataWorks(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadMaxComputeConfig reads the MaxCompute credentials, project and endpoint from env
func LoadMaxComputeConfig() (*MaxCompute, error) {
	cfg := &MaxCompute{}
	v := newEnvViper(EnvAccessKeyID, EnvAccessKeySecret, EnvMaxComputeProject, EnvMaxComputeEndpoint)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.InvalidArgument(entityEnvironment, err.Error())
	}
	cfg.AccessKeyID = strings.TrimSpace(cfg.AccessKeyID)
	cfg.AccessKeySecret = strings.TrimSpace(cfg.AccessKeySecret)
	cfg.Project = strings.TrimSpace(cfg.Project)
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)

	if err := validateMaxCompute(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadLogConfig never fails, an unset or unknown level means info
func LoadLogConfig() LogConfig {
	cfg := LogConfig{}
	v := newEnvViper(EnvLogLevel)
	if err := v.Unmarshal(&cfg); err != nil {
		return LogConfig{Level: LogLevelInfo}
	}
	cfg.Level = cfg.LevelOrDefault()
	return cfg
}

func newEnvViper(envNames ...string) *viper.Viper {
	v := viper.New()
	for _, name := range envNames {
		// with no prefix configured viper looks up the upper-cased key, which is the name itself
		_ = v.BindEnv(name)
	}
	return v
}
