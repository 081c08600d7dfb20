package deploy

import (
	"context"
	"strings"
	"testing"

	"github.com/odpf/salt/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ethan-root/Dataworks/client/local"
	"github.com/ethan-root/Dataworks/config"
	"github.com/ethan-root/Dataworks/ext/dataworks"
	"github.com/ethan-root/Dataworks/internal/errors"
)

const projectConfig = `{
  "ProjectName": "Gucci",
  "ResourceGroup": "Serverless_res_group_1",
  "Schedule": {"Cron": "00 00 01 * * ?"},
  "OSS": {"DataSourceName": "oss_ds", "Endpoint": "oss-cn-shanghai-internal.aliyuncs.com", "Bucket": "gucci-raw"},
  "MaxCompute": {"DataSourceName": "odps_ds", "ProjectName": "gucci_dw"},
  "Tables": [
    {"Name": "t1", "OSS_Object": "t1/", "FileFormat": "parquet", "Partition": "pt",
     "Columns": [{"name": "id", "type": "string"}]}
  ]
}`

func newTestCommand(t *testing.T, files map[string]string) (*deployCommand, *mockWorkspaceClient, afero.Fs) {
	t.Helper()
	fileFS := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fileFS, path, []byte(content), 0o644))
	}
	client := new(mockWorkspaceClient)
	l := log.NewNoop()
	return &deployCommand{
		logger:      l,
		fs:          fileFS,
		loader:      local.NewLoader(fileFS, l),
		projectsDir: defaultProjectsDir,
		projectDir:  defaultProjectDir,
		dwConfig: &config.DataWorks{
			Credentials: config.Credentials{AccessKeyID: "ak", AccessKeySecret: "sk"},
			Region:      "cn-shanghai",
			ProjectID:   42,
		},
		client: client,
	}, client, fileFS
}

func clearDataWorksEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{config.EnvAccessKeyID, config.EnvAccessKeySecret, config.EnvRegion, config.EnvDataWorksProjectID} {
		t.Setenv(name, "")
	}
}

func TestDeployCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("PreRunE", func(t *testing.T) {
		t.Run("rejects unknown step before reading the environment", func(t *testing.T) {
			clearDataWorksEnv(t)
			d, _, _ := newTestCommand(t, nil)
			d.step = "create_everything"

			err := d.PreRunE(&cobra.Command{}, nil)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "unknown step")
			assert.Contains(t, err.Error(), stepCreateNode)
		})
		t.Run("returns missing configuration naming the absent variables", func(t *testing.T) {
			clearDataWorksEnv(t)
			d, _, _ := newTestCommand(t, nil)

			err := d.PreRunE(&cobra.Command{}, nil)

			require.Error(t, err)
			assert.True(t, errors.IsErrorType(err, errors.ErrMissingConfig))
			assert.Contains(t, err.Error(), config.EnvRegion)
		})
	})

	t.Run("check_cli lists resource groups", func(t *testing.T) {
		d, client, _ := newTestCommand(t, nil)
		client.On("ListResourceGroups", ctx).Return([]dataworks.ResourceGroup{{ID: "Serverless_res_group_1", Status: "Normal"}}, nil)

		err := d.runStep(ctx, stepCheckCLI)

		assert.NoError(t, err)
		client.AssertExpectations(t)
	})
	t.Run("check_cli fails when the connection fails", func(t *testing.T) {
		d, client, _ := newTestCommand(t, nil)
		client.On("ListResourceGroups", ctx).Return(nil, errors.RemoteCall("ListResourceGroups", "denied", assert.AnError))

		err := d.runStep(ctx, stepCheckCLI)

		assert.Error(t, err)
	})

	t.Run("check_datasources reports and never fails on lookup errors", func(t *testing.T) {
		d, client, _ := newTestCommand(t, map[string]string{"projects/Test/config.json": projectConfig})
		client.On("FindDataSource", ctx, "oss_ds").Return(&dataworks.DataSource{Name: "oss_ds"}, nil)
		client.On("FindDataSource", ctx, "odps_ds").Return(nil, assert.AnError)

		err := d.runStep(ctx, stepCheckDatasources)

		assert.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("create_oss_ds skips an existing datasource", func(t *testing.T) {
		d, client, _ := newTestCommand(t, map[string]string{"projects/Test/config.json": projectConfig})
		client.On("FindDataSource", ctx, "oss_ds").Return(&dataworks.DataSource{Name: "oss_ds"}, nil)

		err := d.runStep(ctx, stepCreateOSS)

		assert.NoError(t, err)
		client.AssertNotCalled(t, "CreateDataSource", mock.Anything, mock.Anything)
	})
	t.Run("create_odps_ds creates an absent datasource", func(t *testing.T) {
		d, client, _ := newTestCommand(t, map[string]string{"projects/Test/config.json": projectConfig})
		client.On("FindDataSource", ctx, "odps_ds").Return(nil, nil)
		client.On("CreateDataSource", ctx, mock.MatchedBy(func(req dataworks.CreateDataSourceRequest) bool {
			return req.Name == "odps_ds" && req.Type == "odps"
		})).Return(dataworks.ID("11"), nil)

		err := d.runStep(ctx, stepCreateODPS)

		assert.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("create_node writes the node id to GITHUB_OUTPUT", func(t *testing.T) {
		t.Setenv(config.EnvGithubOutput, "/github/output")
		d, client, fileFS := newTestCommand(t, map[string]string{"projects/Test/config.json": projectConfig})
		client.On("FindNode", ctx, "Gucci_t1").Return(nil, nil)
		client.On("CreateNode", ctx, mock.AnythingOfType("string")).Return(dataworks.ID("123"), nil)

		err := d.runStep(ctx, stepCreateNode)
		require.NoError(t, err)

		content, err := afero.ReadFile(fileFS, "/github/output")
		require.NoError(t, err)
		assert.Equal(t, "node_id=123\n", string(content))
	})
	t.Run("create_node returns the creation error", func(t *testing.T) {
		t.Setenv(config.EnvGithubOutput, "/github/output")
		d, client, fileFS := newTestCommand(t, map[string]string{"projects/Test/config.json": projectConfig})
		client.On("FindNode", ctx, "Gucci_t1").Return(nil, nil)
		client.On("CreateNode", ctx, mock.AnythingOfType("string")).Return(dataworks.ID(""), assert.AnError)

		err := d.runStep(ctx, stepCreateNode)

		assert.Error(t, err)
		exists, _ := afero.Exists(fileFS, "/github/output")
		assert.False(t, exists)
	})
	t.Run("create_node without GITHUB_OUTPUT only logs", func(t *testing.T) {
		t.Setenv(config.EnvGithubOutput, "")
		d, client, _ := newTestCommand(t, map[string]string{"projects/Test/config.json": projectConfig})
		client.On("FindNode", ctx, "Gucci_t1").Return(nil, nil)
		client.On("CreateNode", ctx, mock.AnythingOfType("string")).Return(dataworks.ID("123"), nil)

		assert.NoError(t, d.runStep(ctx, stepCreateNode))
	})

	t.Run("deployAll", func(t *testing.T) {
		t.Run("fails when a named project is missing", func(t *testing.T) {
			d, _, _ := newTestCommand(t, map[string]string{"projects/Gucci/config.json": projectConfig})
			d.projects = "Gucci, Prada"

			err := d.deployAll(ctx)

			require.Error(t, err)
			assert.True(t, errors.IsErrorType(err, errors.ErrNotFound))
		})
		t.Run("continues after a failed project and reports it", func(t *testing.T) {
			prada := `{"ProjectName": "Prada", "ResourceGroup": "rg", "Schedule": {"Cron": "00 00 02 * * ?"},
				"OSS": {"DataSourceName": "oss_ds"}, "MaxCompute": {"DataSourceName": "odps_ds"},
				"Tables": [{"Name": "t9", "OSS_Object": "t9/", "FileFormat": "csv"}]}`
			d, client, _ := newTestCommand(t, map[string]string{
				"projects/Gucci/config.json": projectConfig,
				"projects/Prada/config.json": prada,
			})
			client.On("FindNode", ctx, "Gucci_t1").Return(nil, nil)
			client.On("CreateNode", ctx, mock.MatchedBy(func(spec string) bool {
				return strings.Contains(spec, "Gucci_t1")
			})).Return(dataworks.ID("1"), nil)
			client.On("FindNode", ctx, "Prada_t9").Return(nil, nil)
			client.On("CreateNode", ctx, mock.MatchedBy(func(spec string) bool {
				return strings.Contains(spec, "Prada_t9")
			})).Return(dataworks.ID(""), assert.AnError)

			err := d.deployAll(ctx)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "project Prada")
			assert.NotContains(t, err.Error(), "project Gucci")
			client.AssertExpectations(t)
		})
		t.Run("ensures datasources first when asked", func(t *testing.T) {
			d, client, _ := newTestCommand(t, map[string]string{"projects/Gucci/config.json": projectConfig})
			d.withDatasources = true
			client.On("FindDataSource", ctx, "oss_ds").Return(&dataworks.DataSource{Name: "oss_ds"}, nil)
			client.On("FindDataSource", ctx, "odps_ds").Return(&dataworks.DataSource{Name: "odps_ds"}, nil)
			client.On("FindNode", ctx, "Gucci_t1").Return(nil, nil)
			client.On("CreateNode", ctx, mock.AnythingOfType("string")).Return(dataworks.ID("1"), nil)

			assert.NoError(t, d.deployAll(ctx))
			client.AssertExpectations(t)
		})
	})
}

type mockWorkspaceClient struct {
	mock.Mock
}

func (m *mockWorkspaceClient) FindNode(ctx context.Context, name string) (*dataworks.NodeSummary, error) {
	args := m.Called(ctx, name)
	var n *dataworks.NodeSummary
	if args.Get(0) != nil {
		n = args.Get(0).(*dataworks.NodeSummary)
	}
	return n, args.Error(1)
}

func (m *mockWorkspaceClient) CreateNode(ctx context.Context, spec string) (dataworks.ID, error) {
	args := m.Called(ctx, spec)
	return args.Get(0).(dataworks.ID), args.Error(1)
}

func (m *mockWorkspaceClient) GetNode(ctx context.Context, id dataworks.ID) (*dataworks.Node, error) {
	args := m.Called(ctx, id)
	var n *dataworks.Node
	if args.Get(0) != nil {
		n = args.Get(0).(*dataworks.Node)
	}
	return n, args.Error(1)
}

func (m *mockWorkspaceClient) UpdateNode(ctx context.Context, id dataworks.ID, spec string) error {
	return m.Called(ctx, id, spec).Error(0)
}

func (m *mockWorkspaceClient) FindDataSource(ctx context.Context, name string) (*dataworks.DataSource, error) {
	args := m.Called(ctx, name)
	var ds *dataworks.DataSource
	if args.Get(0) != nil {
		ds = args.Get(0).(*dataworks.DataSource)
	}
	return ds, args.Error(1)
}

func (m *mockWorkspaceClient) CreateDataSource(ctx context.Context, req dataworks.CreateDataSourceRequest) (dataworks.ID, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(dataworks.ID), args.Error(1)
}

func (m *mockWorkspaceClient) ListResourceGroups(ctx context.Context) ([]dataworks.ResourceGroup, error) {
	args := m.Called(ctx)
	var groups []dataworks.ResourceGroup
	if args.Get(0) != nil {
		groups = args.Get(0).([]dataworks.ResourceGroup)
	}
	return groups, args.Error(1)
}

func (m *mockWorkspaceClient) ProjectID() int64 {
	return 42
}
