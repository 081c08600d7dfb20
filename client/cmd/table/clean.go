package table

import (
	"context"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/odpf/salt/log"
	"github.com/spf13/cobra"

	"github.com/ethan-root/Dataworks/client/cmd/internal/connection"
	"github.com/ethan-root/Dataworks/client/cmd/internal/logger"
	"github.com/ethan-root/Dataworks/core/cleanup"
	"github.com/ethan-root/Dataworks/internal/errors"
	"github.com/ethan-root/Dataworks/utils"
)

type cleanCommand struct {
	logger    log.Logger
	days      int
	execute   bool
	whitelist string

	store        cleanup.Store
	projectLabel string
}

// NewCleanCommand initializes table clean command
func NewCleanCommand() *cobra.Command {
	clean := &cleanCommand{
		logger: logger.NewClientLogger(),
		days:   cleanup.DefaultRetentionDays,
	}

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Drop MaxCompute tables older than a number of days",
		Long: heredoc.Doc(`List the tables of the MaxCompute project and drop the ones created before the
			retention threshold. Whitelisted tables are never dropped. Without --execute the tables
			are only reported.`),
		Example: heredoc.Doc(`
			$ dataworks table clean
			$ dataworks table clean --days 7 --execute
			$ dataworks table clean --whitelist staging_orders,staging_users
		`),
		PreRunE: clean.PreRunE,
		RunE:    clean.RunE,
	}
	cmd.Flags().IntVar(&clean.days, "days", clean.days, "Retention in days, older tables are dropped")
	cmd.Flags().BoolVar(&clean.execute, "execute", false, "Drop the tables, dry-run otherwise")
	cmd.Flags().StringVar(&clean.whitelist, "whitelist", "", "Comma separated tables never dropped in addition to "+strings.Join(cleanup.DefaultWhitelist, ","))
	return cmd
}

func (c *cleanCommand) PreRunE(_ *cobra.Command, _ []string) error {
	if err := c.options().Validate(); err != nil {
		return errors.InvalidArgument("cleanup", err.Error())
	}
	store, cfg, err := connection.NewMaxCompute(c.logger)
	if err != nil {
		return err
	}
	c.store = store
	c.projectLabel = cfg.Project
	return nil
}

func (c *cleanCommand) RunE(cmd *cobra.Command, _ []string) error {
	return c.clean(cmd.Context())
}

func (c *cleanCommand) options() cleanup.Options {
	opts := cleanup.Options{
		Days:    c.days,
		Execute: c.execute,
	}
	if list := utils.SplitList(c.whitelist); len(list) > 0 {
		opts.Whitelist = list
	}
	return opts
}

func (c *cleanCommand) clean(ctx context.Context) error {
	mode := "DRY-RUN"
	if c.execute {
		mode = "EXECUTE"
	}
	c.logger.Info("MaxCompute table cleanup of %s [%s]", c.projectLabel, mode)

	cleaner := cleanup.NewCleaner(c.store, c.logger, nil)
	summary, err := cleaner.Clean(ctx, c.options())
	if len(summary.Decisions) > 0 {
		c.logger.Info(logger.StringifyCleanupSummary(summary))
	}
	// failed drops are reported in the summary and do not fail the sweep
	if err != nil && (summary.Failed == 0 || ctx.Err() != nil) {
		return err
	}

	if c.execute {
		c.logger.Info("Deleted: %d  Kept: %d  Whitelisted: %d  Failed: %d", summary.Deleted, summary.Kept, summary.Whitelisted, summary.Failed)
		if summary.Failed > 0 {
			c.logger.Warn("%d table(s) could not be dropped: %s", summary.Failed, err)
		}
	} else {
		c.logger.Info("To delete: %d  Kept: %d  Whitelisted: %d", summary.Deleted, summary.Kept, summary.Whitelisted)
	}
	return nil
}
