package deploy

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/odpf/salt/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/ethan-root/Dataworks/client/cmd/datasource"
	"github.com/ethan-root/Dataworks/client/cmd/internal/connection"
	"github.com/ethan-root/Dataworks/client/cmd/internal/logger"
	"github.com/ethan-root/Dataworks/client/cmd/internal/progressbar"
	"github.com/ethan-root/Dataworks/client/local"
	"github.com/ethan-root/Dataworks/config"
	provision "github.com/ethan-root/Dataworks/core/datasource"
	"github.com/ethan-root/Dataworks/core/project"
	"github.com/ethan-root/Dataworks/ext/dataworks"
	"github.com/ethan-root/Dataworks/internal/models"
	"github.com/ethan-root/Dataworks/utils"
)

const (
	defaultProjectsDir = "projects"
	defaultProjectDir  = "projects/Test"
)

type workspaceClient interface {
	project.Client
	provision.Client
	ListResourceGroups(ctx context.Context) ([]dataworks.ResourceGroup, error)
	ProjectID() int64
}

type deployCommand struct {
	logger log.Logger
	fs     afero.Fs
	loader *local.Loader

	projects        string
	projectsDir     string
	projectDir      string
	step            string
	withDatasources bool

	dwConfig *config.DataWorks
	client   workspaceClient
}

// NewDeployCommand initializes command for deployment
func NewDeployCommand() *cobra.Command {
	l := logger.NewClientLogger()
	fileFS := afero.NewOsFs()
	deploy := &deployCommand{
		logger:      l,
		fs:          fileFS,
		loader:      local.NewLoader(fileFS, l),
		projectsDir: defaultProjectsDir,
		projectDir:  defaultProjectDir,
	}

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy data integration nodes of the projects to DataWorks",
		Long: heredoc.Doc(`Create or update one scheduled data integration node per table of every project.
			A node whose remote spec already matches the local one is skipped.
			With --step a single provisioning step is executed against one project directory.`),
		Example: heredoc.Doc(`
			$ dataworks deploy
			$ dataworks deploy --projects Gucci,Balenciaga
			$ dataworks deploy --step check_cli
			$ dataworks deploy --step create_node --project-dir projects/Test
		`),
		Annotations: map[string]string{
			"group:core": "true",
		},
		RunE:    deploy.RunE,
		PreRunE: deploy.PreRunE,
	}
	cmd.Flags().StringVarP(&deploy.projects, "projects", "p", deploy.projects, "Comma separated project names, all projects when empty")
	cmd.Flags().StringVar(&deploy.projectsDir, "projects-dir", deploy.projectsDir, "Projects root directory")
	cmd.Flags().StringVar(&deploy.projectDir, "project-dir", deploy.projectDir, "Single project directory used by --step")
	cmd.Flags().StringVar(&deploy.step, "step", deploy.step, "Execute a single step: "+stepNames())
	cmd.Flags().BoolVar(&deploy.withDatasources, "with-datasources", false, "Ensure the OSS and MaxCompute datasources of each project first")
	return cmd
}

func (d *deployCommand) PreRunE(_ *cobra.Command, _ []string) error {
	if d.step != "" {
		if _, ok := steps[d.step]; !ok {
			return fmt.Errorf("unknown step %q, expected one of %s", d.step, stepNames())
		}
	}

	client, dwConfig, err := connection.NewDataWorks(d.logger)
	if err != nil {
		return err
	}
	d.client = client
	d.dwConfig = dwConfig
	return nil
}

func (d *deployCommand) RunE(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if d.step != "" {
		return d.runStep(ctx, d.step)
	}
	return d.deployAll(ctx)
}

func (d *deployCommand) deployAll(ctx context.Context) error {
	dirPaths, err := d.loader.DiscoverProjects(d.projectsDir, utils.SplitList(d.projects))
	if err != nil {
		return err
	}

	target := d.projects
	if target == "" {
		target = "ALL"
	}
	d.logger.Info("DataWorks Data Integration deployment")
	d.logger.Info("  Project ID:   %d", d.client.ProjectID())
	d.logger.Info("  Projects Dir: %s", d.projectsDir)
	d.logger.Info("  Target:       %s", target)
	d.logger.Info("Found %d project(s).\n", len(dirPaths))

	bar := progressbar.NewProgressBar()
	bar.StartProgress(len(dirPaths), "deploying projects")

	var (
		reports []logger.ProjectReport
		errs    error
	)
	for _, dirPath := range dirPaths {
		report := d.deployProject(ctx, dirPath)
		reports = append(reports, report)
		if report.Err != nil {
			errs = multierr.Append(errs, fmt.Errorf("project %s: %w", report.Name, report.Err))
		}
		bar.Advance(report.Name)
	}
	bar.Stop()

	d.logger.Info("\nDeployment Complete")
	d.logger.Info(logger.StringifyProjectReports(reports))

	failed := len(multierr.Errors(errs))
	d.logger.Info("Succeeded: %d  Failed: %d", len(reports)-failed, failed)
	if errs != nil {
		d.logger.Error("Some projects failed.")
		return errs
	}
	return nil
}

func (d *deployCommand) deployProject(ctx context.Context, dirPath string) logger.ProjectReport {
	report := logger.ProjectReport{Name: dirPath}

	name, nodes, err := d.loader.LoadDeployUnits(dirPath)
	if err != nil {
		d.logger.Error("failed to load %s: %s", dirPath, err)
		report.Err = err
		return report
	}
	report.Name = name

	if d.withDatasources {
		if err := d.ensureDatasources(ctx, dirPath); err != nil {
			report.Err = err
			return report
		}
	}

	processor := project.NewProcessor(d.client, d.logger)
	stats, results, err := processor.Process(ctx, name, nodes)
	report.Stats = stats
	report.Err = err
	d.logger.Debug(logger.StringifyResults(results))
	return report
}

func (d *deployCommand) ensureDatasources(ctx context.Context, dirPath string) error {
	provisioner := provision.NewProvisioner(d.client, d.logger)
	for _, dsType := range []models.DatasourceType{models.DatasourceOSS, models.DatasourceODPS} {
		if _, err := datasource.Ensure(ctx, provisioner, d.loader, dsType, dirPath, d.dwConfig); err != nil {
			return err
		}
	}
	return nil
}
