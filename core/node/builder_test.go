package node_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethan-root/Dataworks/core/node"
	"github.com/ethan-root/Dataworks/internal/errors"
	"github.com/ethan-root/Dataworks/internal/models"
)

func parquetNode() models.NodeConfig {
	return models.NodeConfig{
		NodeName:      "Gucci_t1",
		Owner:         "2000001",
		ResourceGroup: "Serverless_res_group_1",
		Reader: models.ReaderConfig{
			Datasource: "oss_ds",
			Path:       "raw/t1/",
			Format:     "parquet",
			Columns:    []models.Column{{Name: "id", Type: "string"}, {Name: "amount", Type: "double"}},
		},
		Writer: models.WriterConfig{
			Datasource: "odps_ds",
			Table:      "t1",
			Partition:  "pt",
		},
	}
}

func decodeContent(t *testing.T, spec *node.Spec) map[string]interface{} {
	t.Helper()
	var content map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(spec.Node().Script.Content), &content))
	return content
}

func stepParameter(t *testing.T, content map[string]interface{}, index int) map[string]interface{} {
	t.Helper()
	steps, ok := content["steps"].([]interface{})
	require.True(t, ok)
	require.Len(t, steps, 2)
	step, ok := steps[index].(map[string]interface{})
	require.True(t, ok)
	param, ok := step["parameter"].(map[string]interface{})
	require.True(t, ok)
	return param
}

func TestBuild(t *testing.T) {
	t.Run("writes table and bizdate partition for a parquet table", func(t *testing.T) {
		spec, err := node.Build(parquetNode())
		require.NoError(t, err)

		writer := stepParameter(t, decodeContent(t, spec), 1)

		assert.Equal(t, "t1", writer["table"])
		assert.Equal(t, "pt='${bizdate}'", writer["partition"])
		assert.Equal(t, true, writer["truncate"])
		assert.Equal(t, []interface{}{"id", "amount"}, writer["column"])
	})
	t.Run("maps parquet columns by name", func(t *testing.T) {
		spec, err := node.Build(parquetNode())
		require.NoError(t, err)

		reader := stepParameter(t, decodeContent(t, spec), 0)

		assert.Equal(t, []interface{}{
			map[string]interface{}{"type": "string", "value": "id"},
			map[string]interface{}{"type": "double", "value": "amount"},
		}, reader["column"])
		assert.Equal(t, []interface{}{"raw/t1/"}, reader["object"])
		assert.Equal(t, "parquet", reader["fileFormat"])
		assert.NotContains(t, reader, "fieldDelimiter")
	})
	t.Run("maps csv columns by index with delimiter and encoding", func(t *testing.T) {
		cfg := parquetNode()
		cfg.Reader.Format = "CSV"
		cfg.Reader.FieldDelimiter = "|"

		spec, err := node.Build(cfg)
		require.NoError(t, err)
		reader := stepParameter(t, decodeContent(t, spec), 0)

		assert.Equal(t, []interface{}{
			map[string]interface{}{"type": "string", "value": "0"},
			map[string]interface{}{"type": "double", "value": "1"},
		}, reader["column"])
		assert.Equal(t, "csv", reader["fileFormat"])
		assert.Equal(t, "|", reader["fieldDelimiter"])
		assert.Equal(t, "UTF-8", reader["encoding"])
	})
	t.Run("substitutes defaults for absent values", func(t *testing.T) {
		cfg := parquetNode()
		cfg.Reader.Format = ""
		falsy := false
		cfg.Writer.Truncate = &falsy

		spec, err := node.Build(cfg)
		require.NoError(t, err)
		n := spec.Node()

		assert.Equal(t, node.FlowSpecVersion, spec.Version)
		assert.Equal(t, node.FlowSpecKind, spec.Kind)
		assert.Equal(t, "Gucci_t1", n.Name)
		assert.Equal(t, node.Trigger{
			Type:      "Scheduler",
			Cron:      "00 00 00 * * ?",
			StartTime: "1970-01-01 00:00:00",
			EndTime:   "9999-01-01 00:00:00",
			Timezone:  "Asia/Shanghai",
		}, n.Trigger)
		assert.Equal(t, "Allowed", n.RerunMode)
		assert.Equal(t, 3, n.RerunTimes)
		assert.Equal(t, 180000, n.RerunInterval)
		assert.Equal(t, 0, n.Timeout)
		assert.Equal(t, "Serverless_res_group_1", n.RuntimeResource.ResourceGroup)
		assert.Equal(t, "DI", n.Script.Runtime.Command)

		content := decodeContent(t, spec)
		assert.Equal(t, "csv", stepParameter(t, content, 0)["fileFormat"])
		assert.Equal(t, ",", stepParameter(t, content, 0)["fieldDelimiter"])
		assert.Equal(t, false, stepParameter(t, content, 1)["truncate"])
		assert.Equal(t, map[string]interface{}{
			"hops": []interface{}{map[string]interface{}{"from": "Reader", "to": "Writer"}},
		}, content["order"])
	})
	t.Run("keeps configured schedule values", func(t *testing.T) {
		cfg := parquetNode()
		cfg.Cron = "00 30 02 * * ?"
		cfg.RerunMode = "Denied"
		cfg.Timeout = 3600

		spec, err := node.Build(cfg)
		require.NoError(t, err)

		assert.Equal(t, "00 30 02 * * ?", spec.Node().Trigger.Cron)
		assert.Equal(t, "Denied", spec.Node().RerunMode)
		assert.Equal(t, 3600, spec.Node().Timeout)
	})
	t.Run("produces identical bytes for identical input", func(t *testing.T) {
		first, err := node.Build(parquetNode())
		require.NoError(t, err)
		second, err := node.Build(parquetNode())
		require.NoError(t, err)

		firstBytes, err := first.Marshal()
		require.NoError(t, err)
		secondBytes, err := second.Marshal()
		require.NoError(t, err)

		assert.Equal(t, firstBytes, secondBytes)
	})
	t.Run("returns invalid argument naming the missing field", func(t *testing.T) {
		cases := map[string]func(cfg *models.NodeConfig){
			"node_name":      func(cfg *models.NodeConfig) { cfg.NodeName = " " },
			"datasource":     func(cfg *models.NodeConfig) { cfg.Reader.Datasource = "" },
			"table":          func(cfg *models.NodeConfig) { cfg.Writer.Table = "" },
			"resource_group": func(cfg *models.NodeConfig) { cfg.ResourceGroup = "" },
			"cron":           func(cfg *models.NodeConfig) { cfg.Cron = "0 2 * * *" },
			"rerun_mode":     func(cfg *models.NodeConfig) { cfg.RerunMode = "Sometimes" },
			"reader.format":  func(cfg *models.NodeConfig) { cfg.Reader.Format = "xlsx" },
		}
		for field, mutate := range cases {
			cfg := parquetNode()
			mutate(&cfg)

			_, err := node.Build(cfg)

			if assert.Error(t, err, field) {
				assert.True(t, errors.IsErrorType(err, errors.ErrInvalidArgument), field)
				assert.Contains(t, err.Error(), field)
			}
		}
	})
}

func TestPartitionExpression(t *testing.T) {
	cases := []struct {
		partition string
		expected  string
	}{
		{partition: "pt", expected: "pt='${bizdate}'"},
		{partition: " ds ", expected: "ds='${bizdate}'"},
		{partition: "pt=${bizdate}", expected: "pt=${bizdate}"},
		{partition: "pt='20240101',region='cn'", expected: "pt='20240101',region='cn'"},
		{partition: "", expected: ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, node.PartitionExpression(c.partition))
	}
}
