package local

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/odpf/salt/log"
	"github.com/spf13/afero"

	"github.com/ethan-root/Dataworks/client/local/internal"
	"github.com/ethan-root/Dataworks/internal/errors"
	"github.com/ethan-root/Dataworks/internal/models"
)

// Loader reads project directories: config templates, global overrides and SQL files
type Loader struct {
	fs     afero.Fs
	logger log.Logger
}

func NewLoader(fileFS afero.Fs, logger log.Logger) *Loader {
	return &Loader{
		fs:     fileFS,
		logger: logger,
	}
}

// LoadNodeConfig returns the merged task-config.json of dirPath
func (l *Loader) LoadNodeConfig(dirPath string) (*models.NodeConfig, error) {
	merged, err := l.MergeNodeConfig(dirPath)
	if err != nil {
		return nil, err
	}
	cfg := &models.NodeConfig{}
	if err := decode(NodeConfigFileName, merged, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadProject returns the merged config.json of dirPath
func (l *Loader) LoadProject(dirPath string) (*models.Project, error) {
	merged, err := l.MergeProject(dirPath)
	if err != nil {
		return nil, err
	}
	project := &models.Project{}
	if err := decode(ProjectConfigFileName, merged, project); err != nil {
		return nil, err
	}
	return project, nil
}

// LoadDeployUnits returns the nodes declared in dirPath, from config.json when present and
// from task-config.json otherwise. The returned name identifies the unit in logs.
func (l *Loader) LoadDeployUnits(dirPath string) (string, []models.NodeConfig, error) {
	if internal.Exists(l.fs, filepath.Join(dirPath, ProjectConfigFileName)) {
		project, err := l.LoadProject(dirPath)
		if err != nil {
			return "", nil, err
		}
		if err := project.Validate(); err != nil {
			return "", nil, errors.InvalidArgument(ProjectConfigFileName, err.Error())
		}
		return project.ProjectName, project.NodeConfigs(), nil
	}

	node, err := l.LoadNodeConfig(dirPath)
	if err != nil {
		return "", nil, err
	}
	return filepath.Base(dirPath), []models.NodeConfig{*node}, nil
}

// LoadOSSDatasource prefers oss-datasource.json and falls back to the OSS section of config.json
func (l *Loader) LoadOSSDatasource(dirPath string) (*models.OSSDatasource, error) {
	ds := &models.OSSDatasource{}
	if internal.Exists(l.fs, filepath.Join(dirPath, OSSDatasourceFileName)) {
		merged, err := l.MergeOSSDatasource(dirPath)
		if err != nil {
			return nil, err
		}
		if err := decode(OSSDatasourceFileName, merged, ds); err != nil {
			return nil, err
		}
		return ds, nil
	}

	project, err := l.projectFallback(dirPath, OSSDatasourceFileName)
	if err != nil {
		return nil, err
	}
	ds.Name = project.OSS.DataSourceName
	ds.Endpoint = project.OSS.Endpoint
	ds.Bucket = project.OSS.Bucket
	return ds, nil
}

// LoadMaxComputeDatasource prefers maxcompute-datasource.json and falls back to the
// MaxCompute section of config.json
func (l *Loader) LoadMaxComputeDatasource(dirPath string) (*models.MaxComputeDatasource, error) {
	ds := &models.MaxComputeDatasource{}
	if internal.Exists(l.fs, filepath.Join(dirPath, MaxComputeDatasourceFileName)) {
		merged, err := l.MergeMaxComputeDatasource(dirPath)
		if err != nil {
			return nil, err
		}
		if err := decode(MaxComputeDatasourceFileName, merged, ds); err != nil {
			return nil, err
		}
		return ds, nil
	}

	project, err := l.projectFallback(dirPath, MaxComputeDatasourceFileName)
	if err != nil {
		return nil, err
	}
	ds.Name = project.MaxCompute.DataSourceName
	ds.Project = project.MaxCompute.ProjectName
	ds.Endpoint = project.MaxCompute.Endpoint
	return ds, nil
}

func (l *Loader) projectFallback(dirPath, wantedFile string) (*models.Project, error) {
	if !internal.Exists(l.fs, filepath.Join(dirPath, ProjectConfigFileName)) {
		return nil, errors.NotFound(wantedFile, fmt.Sprintf("neither %s nor %s found in %s", wantedFile, ProjectConfigFileName, dirPath))
	}
	return l.LoadProject(dirPath)
}

// ReadCreateTableSQL returns the trimmed DDL of create-table.sql
func (l *Loader) ReadCreateTableSQL(dirPath string) (string, error) {
	filePath := filepath.Join(dirPath, CreateTableSQLFileName)
	if !internal.Exists(l.fs, filePath) {
		return "", errors.NotFound(CreateTableSQLFileName, "create-table.sql not found in "+dirPath)
	}
	content, err := afero.ReadFile(l.fs, filePath)
	if err != nil {
		return "", fmt.Errorf("error reading [%s]: %w", filePath, err)
	}
	ddl := strings.TrimSpace(string(content))
	if ddl == "" {
		return "", errors.InvalidArgument(CreateTableSQLFileName, filePath+" is empty")
	}
	return ddl, nil
}

// DiscoverProjects resolves the project directories to process. Named projects must exist,
// without names every child of rootDir holding a config file is taken.
func (l *Loader) DiscoverProjects(rootDir string, names []string) ([]string, error) {
	var dirPaths []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		dirPath := filepath.Join(rootDir, name)
		if !internal.IsDir(l.fs, dirPath) {
			return nil, errors.NotFound("project", "project directory not found: "+dirPath)
		}
		dirPaths = append(dirPaths, dirPath)
	}
	if len(dirPaths) > 0 {
		return dirPaths, nil
	}

	discovered, err := internal.DiscoverProjectDirPaths(l.fs, rootDir, ProjectConfigFileName, NodeConfigFileName)
	if err != nil {
		return nil, err
	}
	if len(discovered) == 0 {
		return nil, fmt.Errorf("%w: no project directories with %s found in %s", models.ErrNoProjects, ProjectConfigFileName, rootDir)
	}
	return discovered, nil
}

func decode(entity string, input map[string]interface{}, output interface{}) error {
	if err := mapstructure.Decode(input, output); err != nil {
		return errors.InvalidArgument(entity, err.Error())
	}
	return nil
}
