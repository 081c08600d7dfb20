package local

import (
	"path/filepath"
	"strings"

	"github.com/ethan-root/Dataworks/client/local/internal"
)

const (
	ProjectConfigFileName        = "config.json"
	NodeConfigFileName           = "task-config.json"
	GlobalConfigFileName         = "global.json"
	OSSDatasourceFileName        = "oss-datasource.json"
	MaxComputeDatasourceFileName = "maxcompute-datasource.json"
	CreateTableSQLFileName       = "create-table.sql"
)

// overrideRule copies global[key] into the base document at target
type overrideRule struct {
	key    string
	target string
}

func (r overrideRule) targetKeys() []string {
	return strings.Split(r.target, ".")
}

var (
	nodeSection  = []string{"task"}
	nodeOverride = []overrideRule{
		{key: "node_name", target: "node_name"},
		{key: "cron", target: "cron"},
		{key: "resource_group", target: "resource_group"},
		{key: "owner", target: "owner"},
		{key: "reader_datasource", target: "reader.datasource"},
		{key: "reader_path", target: "reader.path"},
		{key: "writer_datasource", target: "writer.datasource"},
		{key: "writer_table", target: "writer.table"},
		{key: "writer_partition", target: "writer.partition"},
	}

	projectSection  = []string{"project"}
	projectOverride = []overrideRule{
		{key: "cron", target: "Schedule.Cron"},
		{key: "resource_group", target: "ResourceGroup"},
		{key: "owner", target: "Owner"},
		{key: "oss_datasource", target: "OSS.DataSourceName"},
		{key: "odps_datasource", target: "MaxCompute.DataSourceName"},
	}

	ossSection  = []string{"datasource", "oss"}
	ossOverride = []overrideRule{
		{key: "name", target: "name"},
		{key: "bucket", target: "bucket"},
		{key: "endpoint", target: "endpoint"},
	}

	maxComputeSection  = []string{"datasource", "mc"}
	maxComputeOverride = []overrideRule{
		{key: "name", target: "name"},
		{key: "project", target: "project"},
		{key: "endpoint", target: "endpoint"},
	}
)

// MergeNodeConfig reads task-config.json and applies the [task] section of global.json
func (l *Loader) MergeNodeConfig(dirPath string) (map[string]interface{}, error) {
	return l.merge(dirPath, NodeConfigFileName, nodeSection, nodeOverride)
}

// MergeProject reads config.json and applies the [project] section of global.json
func (l *Loader) MergeProject(dirPath string) (map[string]interface{}, error) {
	return l.merge(dirPath, ProjectConfigFileName, projectSection, projectOverride)
}

// MergeOSSDatasource reads oss-datasource.json and applies [datasource.oss] of global.json
func (l *Loader) MergeOSSDatasource(dirPath string) (map[string]interface{}, error) {
	return l.merge(dirPath, OSSDatasourceFileName, ossSection, ossOverride)
}

// MergeMaxComputeDatasource reads maxcompute-datasource.json and applies [datasource.mc] of global.json
func (l *Loader) MergeMaxComputeDatasource(dirPath string) (map[string]interface{}, error) {
	return l.merge(dirPath, MaxComputeDatasourceFileName, maxComputeSection, maxComputeOverride)
}

func (l *Loader) merge(dirPath, templateName string, section []string, rules []overrideRule) (map[string]interface{}, error) {
	base, err := internal.ReadJSONObject(l.fs, filepath.Join(dirPath, templateName))
	if err != nil {
		return nil, err
	}

	overrides := internal.LookupObject(l.readGlobal(dirPath), section...)
	if len(overrides) == 0 {
		return base, nil
	}
	for _, rule := range rules {
		value, ok := overrides[rule.key]
		if !ok {
			continue
		}
		if !internal.Assign(base, value, rule.targetKeys()...) {
			l.logger.Debug("skipping override [%s]: [%s] is not present in %s", rule.key, rule.target, templateName)
		}
	}
	return base, nil
}

// readGlobal never fails, an absent or broken global.json means no overrides
func (l *Loader) readGlobal(dirPath string) map[string]interface{} {
	filePath := filepath.Join(dirPath, GlobalConfigFileName)
	if !internal.Exists(l.fs, filePath) {
		return nil
	}
	global, err := internal.ReadJSONObject(l.fs, filePath)
	if err != nil {
		l.logger.Warn("[WARN] Failed to load %s: %s", GlobalConfigFileName, err)
		return nil
	}
	return global
}
