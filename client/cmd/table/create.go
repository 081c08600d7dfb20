package table

import (
	"context"

	"github.com/odpf/salt/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ethan-root/Dataworks/client/cmd/internal/connection"
	"github.com/ethan-root/Dataworks/client/cmd/internal/logger"
	"github.com/ethan-root/Dataworks/client/local"
)

const defaultProjectDir = "projects/Test"

type sqlExecutor interface {
	ExecSQL(ctx context.Context, sql string) error
}

type createCommand struct {
	logger     log.Logger
	loader     *local.Loader
	projectDir string

	store sqlExecutor
}

// NewCreateCommand initializes table create command
func NewCreateCommand() *cobra.Command {
	l := logger.NewClientLogger()
	create := &createCommand{
		logger:     l,
		loader:     local.NewLoader(afero.NewOsFs(), l),
		projectDir: defaultProjectDir,
	}

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Run create-table.sql of a project against MaxCompute",
		Example: "dataworks table create --project-dir projects/Gucci",
		PreRunE: create.PreRunE,
		RunE:    create.RunE,
	}
	cmd.Flags().StringVarP(&create.projectDir, "project-dir", "d", create.projectDir, "Project directory holding create-table.sql")
	return cmd
}

func (c *createCommand) PreRunE(_ *cobra.Command, _ []string) error {
	store, _, err := connection.NewMaxCompute(c.logger)
	if err != nil {
		return err
	}
	c.store = store
	return nil
}

func (c *createCommand) RunE(cmd *cobra.Command, _ []string) error {
	return c.create(cmd.Context())
}

func (c *createCommand) create(ctx context.Context) error {
	ddl, err := c.loader.ReadCreateTableSQL(c.projectDir)
	if err != nil {
		return err
	}
	c.logger.Info("Executing create-table.sql of %s", c.projectDir)
	c.logger.Debug(ddl)
	if err := c.store.ExecSQL(ctx, ddl); err != nil {
		return err
	}
	c.logger.Info("Table created successfully")
	return nil
}
