package datasource

import (
	"github.com/odpf/salt/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ethan-root/Dataworks/client/cmd/internal/connection"
	"github.com/ethan-root/Dataworks/client/cmd/internal/logger"
	"github.com/ethan-root/Dataworks/client/local"
	provision "github.com/ethan-root/Dataworks/core/datasource"
)

type checkCommand struct {
	logger     log.Logger
	loader     *local.Loader
	projectDir string

	provisioner *provision.Provisioner
}

// NewCheckCommand initializes datasource check command
func NewCheckCommand() *cobra.Command {
	l := logger.NewClientLogger()
	check := &checkCommand{
		logger:     l,
		loader:     local.NewLoader(afero.NewOsFs(), l),
		projectDir: defaultProjectDir,
	}

	cmd := &cobra.Command{
		Use:     "check",
		Short:   "Check whether the datasources of a project exist",
		Example: "dataworks datasource check --project-dir projects/Gucci",
		PreRunE: check.PreRunE,
		RunE:    check.RunE,
	}
	cmd.Flags().StringVarP(&check.projectDir, "project-dir", "d", check.projectDir, "Project directory holding the descriptors")
	return cmd
}

func (c *checkCommand) PreRunE(_ *cobra.Command, _ []string) error {
	client, _, err := connection.NewDataWorks(c.logger)
	if err != nil {
		return err
	}
	c.provisioner = provision.NewProvisioner(client, c.logger)
	return nil
}

func (c *checkCommand) RunE(cmd *cobra.Command, _ []string) error {
	statuses, err := Check(cmd.Context(), c.provisioner, c.loader, c.projectDir)
	if err != nil {
		return err
	}
	PrintStatuses(c.logger, statuses)
	return nil
}

func PrintStatuses(l log.Logger, statuses []Status) {
	l.Info("Checking DataSources ...")
	for _, status := range statuses {
		if status.Exists {
			l.Info("  %-5s '%s': EXISTS", status.Type, status.Name)
		} else {
			l.Warn("  %-5s '%s': NOT FOUND", status.Type, status.Name)
		}
	}
}
