package node

import (
	"context"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/odpf/salt/log"
	"github.com/spf13/cobra"

	"github.com/ethan-root/Dataworks/client/cmd/internal/connection"
	"github.com/ethan-root/Dataworks/client/cmd/internal/logger"
	"github.com/ethan-root/Dataworks/client/cmd/internal/progressbar"
	"github.com/ethan-root/Dataworks/core/deployment"
	"github.com/ethan-root/Dataworks/internal/errors"
)

type publishCommand struct {
	logger     log.Logger
	fileID     int64
	nodeName   string
	skipDeploy bool
	timeout    time.Duration
	interval   time.Duration

	client deployment.Client
}

// NewPublishCommand initializes node publish command
func NewPublishCommand() *cobra.Command {
	publish := &publishCommand{
		logger:   logger.NewClientLogger(),
		timeout:  deployment.DefaultTimeout,
		interval: deployment.DefaultPollInterval,
	}

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Submit a node file and deploy it to production",
		Long: heredoc.Doc(`Submit the file of a node to the scheduler and wait for the deployment to finish,
			then deploy it to production and wait again. The file is given by id or resolved from
			the node name.`),
		Example: heredoc.Doc(`
			$ dataworks node publish --file-id 500123
			$ dataworks node publish --node-name Gucci_t1 --skip-deploy
		`),
		PreRunE: publish.PreRunE,
		RunE:    publish.RunE,
	}
	cmd.Flags().Int64Var(&publish.fileID, "file-id", 0, "Id of the file to publish")
	cmd.Flags().StringVar(&publish.nodeName, "node-name", "", "Name of the node whose file is published")
	cmd.Flags().BoolVar(&publish.skipDeploy, "skip-deploy", false, "Only submit, do not deploy to production")
	cmd.Flags().DurationVar(&publish.timeout, "timeout", publish.timeout, "Maximum wait for each deployment")
	cmd.Flags().DurationVar(&publish.interval, "interval", publish.interval, "Status poll interval")
	return cmd
}

func (p *publishCommand) PreRunE(_ *cobra.Command, _ []string) error {
	if err := p.validate(); err != nil {
		return err
	}
	client, _, err := connection.NewDataWorks(p.logger)
	if err != nil {
		return err
	}
	p.client = client
	return nil
}

func (p *publishCommand) validate() error {
	p.nodeName = strings.TrimSpace(p.nodeName)
	switch {
	case p.fileID == 0 && p.nodeName == "":
		return errors.InvalidArgument("publish", "one of --file-id or --node-name is required")
	case p.fileID != 0 && p.nodeName != "":
		return errors.InvalidArgument("publish", "--file-id and --node-name are mutually exclusive")
	case p.fileID < 0:
		return errors.InvalidArgument("publish", "--file-id must be positive")
	}
	return nil
}

func (p *publishCommand) RunE(cmd *cobra.Command, _ []string) error {
	return p.publish(cmd.Context(), progressbar.NewProgressBar())
}

func (p *publishCommand) publish(ctx context.Context, bar *progressbar.ProgressBar) error {
	poller := deployment.NewPoller(p.client, p.logger, p.interval, p.timeout)
	publisher := deployment.NewPublisher(p.client, poller, p.logger)

	fileID := p.fileID
	if fileID == 0 {
		var err error
		fileID, err = publisher.ResolveFileID(ctx, p.nodeName)
		if err != nil {
			return err
		}
		p.logger.Info("Node %s is file %d", p.nodeName, fileID)
	}

	bar.Start("publishing file")
	err := publisher.Publish(ctx, fileID, p.skipDeploy)
	bar.Stop()
	if err != nil {
		return err
	}
	p.logger.Info("Publish finished!")
	return nil
}
