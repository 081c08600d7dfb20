package datasource

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ethan-root/Dataworks/client/local"
	"github.com/ethan-root/Dataworks/config"
	provision "github.com/ethan-root/Dataworks/core/datasource"
	"github.com/ethan-root/Dataworks/internal/errors"
	"github.com/ethan-root/Dataworks/internal/models"
)

const defaultProjectDir = "projects/Test"

// NewDatasourceCommand initializes command for datasource
func NewDatasourceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datasource",
		Short: "Provision DataWorks datasources",
		Annotations: map[string]string{
			"group:core": "true",
		},
	}

	cmd.AddCommand(NewCreateCommand())
	cmd.AddCommand(NewCheckCommand())
	return cmd
}

// ParseType accepts the descriptor types a project can declare
func ParseType(value string) (models.DatasourceType, error) {
	switch models.DatasourceType(value) {
	case models.DatasourceOSS:
		return models.DatasourceOSS, nil
	case models.DatasourceODPS:
		return models.DatasourceODPS, nil
	default:
		return "", errors.InvalidArgument("datasource", fmt.Sprintf("unknown datasource type %q, expected %s or %s", value, models.DatasourceOSS, models.DatasourceODPS))
	}
}

// LoadDefinition reads the merged descriptor of dsType from projectDir and turns it
// into a CreateDataSource definition
func LoadDefinition(loader *local.Loader, dsType models.DatasourceType, projectDir string, cfg *config.DataWorks) (provision.Definition, error) {
	switch dsType {
	case models.DatasourceOSS:
		ds, err := loader.LoadOSSDatasource(projectDir)
		if err != nil {
			return provision.Definition{}, err
		}
		return provision.OSS(*ds, cfg.Credentials)
	case models.DatasourceODPS:
		ds, err := loader.LoadMaxComputeDatasource(projectDir)
		if err != nil {
			return provision.Definition{}, err
		}
		return provision.MaxCompute(*ds, cfg.Region)
	default:
		return provision.Definition{}, errors.InvalidArgument("datasource", "unknown datasource type "+dsType.String())
	}
}

// Ensure creates the datasource of dsType declared in projectDir unless it exists
func Ensure(ctx context.Context, provisioner *provision.Provisioner, loader *local.Loader, dsType models.DatasourceType, projectDir string, cfg *config.DataWorks) (provision.Outcome, error) {
	def, err := LoadDefinition(loader, dsType, projectDir, cfg)
	if err != nil {
		return "", err
	}
	return provisioner.Ensure(ctx, def)
}

// Status reports which of the two datasources of projectDir already exist
type Status struct {
	Type   models.DatasourceType
	Name   string
	Exists bool
}

// Check looks both datasources of projectDir up by name
func Check(ctx context.Context, provisioner *provision.Provisioner, loader *local.Loader, projectDir string) ([]Status, error) {
	oss, err := loader.LoadOSSDatasource(projectDir)
	if err != nil {
		return nil, err
	}
	odps, err := loader.LoadMaxComputeDatasource(projectDir)
	if err != nil {
		return nil, err
	}
	return []Status{
		{Type: models.DatasourceOSS, Name: oss.Name, Exists: provisioner.Exists(ctx, oss.Name)},
		{Type: models.DatasourceODPS, Name: odps.Name, Exists: provisioner.Exists(ctx, odps.Name)},
	}, nil
}
