package datasource_test

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"testing"

	"github.com/odpf/salt/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ethan-root/Dataworks/config"
	"github.com/ethan-root/Dataworks/core/datasource"
	"github.com/ethan-root/Dataworks/ext/dataworks"
	"github.com/ethan-root/Dataworks/internal/errors"
	"github.com/ethan-root/Dataworks/internal/models"
)

var creds = config.Credentials{AccessKeyID: "ak", AccessKeySecret: "sk"}

func decodeProperties(t *testing.T, req dataworks.CreateDataSourceRequest) map[string]interface{} {
	t.Helper()
	var props map[string]interface{}
	assert.Nil(t, json.Unmarshal([]byte(req.ConnectionProperties), &props))
	return props
}

func TestDefinition(t *testing.T) {
	t.Run("OSS", func(t *testing.T) {
		t.Run("carries endpoint bucket and the access key pair", func(t *testing.T) {
			def, err := datasource.OSS(models.OSSDatasource{Name: "oss_ds", Endpoint: "oss-cn-shanghai-internal.aliyuncs.com", Bucket: "gucci-raw"}, creds)
			assert.Nil(t, err)

			req, err := def.Request()
			assert.Nil(t, err)

			assert.Equal(t, "oss_ds", req.Name)
			assert.Equal(t, "oss", req.Type)
			assert.Equal(t, dataworks.ConnectionModeURL, req.ConnectionPropertiesMode)
			assert.Equal(t, map[string]interface{}{
				"endpoint":  "oss-cn-shanghai-internal.aliyuncs.com",
				"bucket":    "gucci-raw",
				"accessId":  "ak",
				"accessKey": "sk",
				"envType":   "Dev",
			}, decodeProperties(t, req))
		})
		t.Run("keeps a configured environment", func(t *testing.T) {
			def, err := datasource.OSS(models.OSSDatasource{Name: "oss_ds", Endpoint: "e", Bucket: "b", EnvType: "Prod"}, creds)

			assert.Nil(t, err)
			assert.Equal(t, "Prod", def.Properties["envType"])
		})
		t.Run("rejects a descriptor without bucket", func(t *testing.T) {
			_, err := datasource.OSS(models.OSSDatasource{Name: "oss_ds", Endpoint: "e"}, creds)

			assert.True(t, errors.IsErrorType(err, errors.ErrInvalidArgument))
		})
		t.Run("requires the access key pair", func(t *testing.T) {
			_, err := datasource.OSS(models.OSSDatasource{Name: "oss_ds", Endpoint: "e", Bucket: "b"}, config.Credentials{AccessKeyID: "ak"})

			assert.True(t, errors.IsErrorType(err, errors.ErrMissingConfig))
			assert.Contains(t, err.Error(), config.EnvAccessKeySecret)
		})
		t.Run("redacts the secret", func(t *testing.T) {
			def, _ := datasource.OSS(models.OSSDatasource{Name: "oss_ds", Endpoint: "e", Bucket: "b"}, creds)

			assert.Equal(t, "******", def.Redacted()["accessKey"])
			assert.Equal(t, "sk", def.Properties["accessKey"])
		})
	})
	t.Run("MaxCompute", func(t *testing.T) {
		t.Run("uses the primary account with self adapting endpoint", func(t *testing.T) {
			def, err := datasource.MaxCompute(models.MaxComputeDatasource{Name: "odps_ds", Project: "gucci_dw", Description: "warehouse"}, "cn-shanghai")
			assert.Nil(t, err)

			req, err := def.Request()
			assert.Nil(t, err)

			assert.Equal(t, "odps", req.Type)
			assert.Equal(t, "warehouse", req.Description)
			assert.Equal(t, map[string]interface{}{
				"project":      "gucci_dw",
				"envType":      "Prod",
				"regionId":     "cn-shanghai",
				"endpointMode": "SelfAdaption",
				"authType":     "PrimaryAccount",
			}, decodeProperties(t, req))
		})
		t.Run("switches to a custom endpoint when one is given", func(t *testing.T) {
			def, err := datasource.MaxCompute(models.MaxComputeDatasource{Name: "odps_ds", Project: "gucci_dw", Endpoint: "http://service.cn-shanghai.maxcompute.aliyun.com/api"}, "cn-shanghai")

			assert.Nil(t, err)
			assert.Equal(t, "Custom", def.Properties["endpointMode"])
			assert.Equal(t, "http://service.cn-shanghai.maxcompute.aliyun.com/api", def.Properties["endpoint"])
		})
		t.Run("rejects a descriptor without project", func(t *testing.T) {
			_, err := datasource.MaxCompute(models.MaxComputeDatasource{Name: "odps_ds"}, "cn-shanghai")

			assert.True(t, errors.IsErrorType(err, errors.ErrInvalidArgument))
		})
	})
}

func TestProvisioner(t *testing.T) {
	ctx := context.Background()
	logger := log.NewNoop()
	def, _ := datasource.MaxCompute(models.MaxComputeDatasource{Name: "odps_ds", Project: "gucci_dw"}, "cn-shanghai")

	t.Run("Ensure", func(t *testing.T) {
		t.Run("skips creation when the datasource exists", func(t *testing.T) {
			client := new(mockClient)
			defer client.AssertExpectations(t)
			client.On("FindDataSource", ctx, "odps_ds").Return(&dataworks.DataSource{ID: "2", Name: "odps_ds"}, nil)

			outcome, err := datasource.NewProvisioner(client, logger).Ensure(ctx, def)

			assert.Nil(t, err)
			assert.Equal(t, datasource.Existed, outcome)
			client.AssertNotCalled(t, "CreateDataSource", mock.Anything, mock.Anything)
		})
		t.Run("creates when the lookup fails", func(t *testing.T) {
			client := new(mockClient)
			defer client.AssertExpectations(t)
			client.On("FindDataSource", ctx, "odps_ds").Return(nil, stdErrors.New("throttled"))
			client.On("CreateDataSource", ctx, mock.MatchedBy(func(req dataworks.CreateDataSourceRequest) bool {
				return req.Name == "odps_ds" && req.Type == "odps"
			})).Return(dataworks.ID("3"), nil)

			outcome, err := datasource.NewProvisioner(client, logger).Ensure(ctx, def)

			assert.Nil(t, err)
			assert.Equal(t, datasource.Created, outcome)
		})
		t.Run("treats an already exists error as existing", func(t *testing.T) {
			client := new(mockClient)
			client.On("FindDataSource", ctx, "odps_ds").Return(nil, nil)
			client.On("CreateDataSource", ctx, mock.Anything).Return(dataworks.ID(""), stdErrors.New("DataSource.AlreadyExists"))

			outcome, err := datasource.NewProvisioner(client, logger).Ensure(ctx, def)

			assert.Nil(t, err)
			assert.Equal(t, datasource.Existed, outcome)
		})
		t.Run("returns create failures", func(t *testing.T) {
			client := new(mockClient)
			client.On("FindDataSource", ctx, "odps_ds").Return(nil, nil)
			client.On("CreateDataSource", ctx, mock.Anything).Return(dataworks.ID(""), stdErrors.New("authType not supported"))

			_, err := datasource.NewProvisioner(client, logger).Ensure(ctx, def)

			assert.NotNil(t, err)
			assert.Contains(t, err.Error(), "authType not supported")
		})
	})
	t.Run("Create", func(t *testing.T) {
		t.Run("returns a typed already exists error", func(t *testing.T) {
			client := new(mockClient)
			client.On("CreateDataSource", ctx, mock.Anything).Return(dataworks.ID(""), stdErrors.New("datasource odps_ds already exists"))

			_, err := datasource.NewProvisioner(client, logger).Create(ctx, def)

			assert.True(t, errors.IsErrorType(err, errors.ErrAlreadyExists))
		})
		t.Run("returns the new id", func(t *testing.T) {
			client := new(mockClient)
			client.On("CreateDataSource", ctx, mock.Anything).Return(dataworks.ID("9"), nil)

			id, err := datasource.NewProvisioner(client, logger).Create(ctx, def)

			assert.Nil(t, err)
			assert.Equal(t, dataworks.ID("9"), id)
		})
	})
}

type mockClient struct {
	mock.Mock
}

func (m *mockClient) FindDataSource(ctx context.Context, name string) (*dataworks.DataSource, error) {
	args := m.Called(ctx, name)
	var ds *dataworks.DataSource
	if args.Get(0) != nil {
		ds = args.Get(0).(*dataworks.DataSource)
	}
	return ds, args.Error(1)
}

func (m *mockClient) CreateDataSource(ctx context.Context, req dataworks.CreateDataSourceRequest) (dataworks.ID, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(dataworks.ID), args.Error(1)
}
