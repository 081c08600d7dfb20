package config

// Contains the environment configuration shared by the commands

const (
	EnvAccessKeyID        = "ALIBABA_CLOUD_ACCESS_KEY_ID"
	EnvAccessKeySecret    = "ALIBABA_CLOUD_ACCESS_KEY_SECRET" //nolint:gosec
	EnvRegion             = "ALIYUN_REGION"
	EnvDataWorksProjectID = "DATAWORKS_PROJECT_ID"
	EnvMaxComputeProject  = "MAXCOMPUTE_PROJECT"
	EnvMaxComputeEndpoint = "MAXCOMPUTE_ENDPOINT"
	EnvLogLevel           = "DATAWORKS_LOG_LEVEL"
	EnvGithubOutput       = "GITHUB_OUTPUT"
)

type Credentials struct {
	AccessKeyID     string `mapstructure:"alibaba_cloud_access_key_id"`
	AccessKeySecret string `mapstructure:"alibaba_cloud_access_key_secret"`
}

// DataWorks holds what is needed to talk to the DataWorks OpenAPI
type DataWorks struct {
	Credentials `mapstructure:",squash"`
	Region      string `mapstructure:"aliyun_region"`
	ProjectID   int64  `mapstructure:"dataworks_project_id"`
}

// Endpoint is the regional OpenAPI domain
func (d DataWorks) Endpoint() string {
	return "dataworks." + d.Region + ".aliyuncs.com"
}

// MaxCompute holds what is needed to run statements against a MaxCompute project
type MaxCompute struct {
	Credentials `mapstructure:",squash"`
	Project     string `mapstructure:"maxcompute_project"`
	Endpoint    string `mapstructure:"maxcompute_endpoint"`
}
