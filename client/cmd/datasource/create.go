package datasource

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/odpf/salt/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ethan-root/Dataworks/client/cmd/internal"
	"github.com/ethan-root/Dataworks/client/cmd/internal/connection"
	"github.com/ethan-root/Dataworks/client/cmd/internal/logger"
	"github.com/ethan-root/Dataworks/client/local"
	"github.com/ethan-root/Dataworks/config"
	provision "github.com/ethan-root/Dataworks/core/datasource"
	"github.com/ethan-root/Dataworks/internal/models"
)

type createCommand struct {
	logger     log.Logger
	loader     *local.Loader
	projectDir string
	typeName   string

	dsType      models.DatasourceType
	dwConfig    *config.DataWorks
	provisioner *provision.Provisioner
}

// NewCreateCommand initializes datasource create command
func NewCreateCommand() *cobra.Command {
	l := logger.NewClientLogger()
	create := &createCommand{
		logger:     l,
		loader:     local.NewLoader(afero.NewOsFs(), l),
		projectDir: defaultProjectDir,
	}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create the OSS or MaxCompute datasource of a project",
		Long: heredoc.Doc(`Read the datasource descriptor of the project directory, merged with global.json,
			and create the datasource in the DataWorks workspace unless one with the same name exists.
			Without a dedicated descriptor the OSS and MaxCompute sections of config.json are used.`),
		Example: heredoc.Doc(`
			$ dataworks datasource create --type oss --project-dir projects/Gucci
			$ dataworks datasource create --type odps
		`),
		PreRunE: create.PreRunE,
		RunE:    create.RunE,
	}
	cmd.Flags().StringVarP(&create.typeName, "type", "t", create.typeName, "Datasource type, oss or odps")
	cmd.Flags().StringVarP(&create.projectDir, "project-dir", "d", create.projectDir, "Project directory holding the descriptors")
	if err := internal.MarkFlagsRequired(cmd, "type"); err != nil {
		panic(err)
	}
	return cmd
}

func (c *createCommand) PreRunE(_ *cobra.Command, _ []string) error {
	var err error
	c.dsType, err = ParseType(c.typeName)
	if err != nil {
		return err
	}

	client, dwConfig, err := connection.NewDataWorks(c.logger)
	if err != nil {
		return err
	}
	c.dwConfig = dwConfig
	c.provisioner = provision.NewProvisioner(client, c.logger)
	return nil
}

func (c *createCommand) RunE(cmd *cobra.Command, _ []string) error {
	outcome, err := Ensure(cmd.Context(), c.provisioner, c.loader, c.dsType, c.projectDir, c.dwConfig)
	if err != nil {
		return err
	}
	c.logger.Info("%s datasource %s", c.dsType, outcome)
	return nil
}
