package version

import (
	"github.com/odpf/salt/log"
	"github.com/odpf/salt/version"
	"github.com/spf13/cobra"

	"github.com/ethan-root/Dataworks/client/cmd/internal/logger"
	"github.com/ethan-root/Dataworks/config"
)

const githubRepo = "ethan-root/Dataworks"

type versionCommand struct {
	logger      log.Logger
	checkUpdate bool
}

// NewVersionCommand initializes command to get version
func NewVersionCommand() *cobra.Command {
	v := &versionCommand{
		logger: logger.NewClientLogger(),
	}

	cmd := &cobra.Command{
		Use:     "version",
		Short:   "Print the client version information",
		Example: "dataworks version [--check-update]",
		RunE:    v.RunE,
	}
	cmd.Flags().BoolVar(&v.checkUpdate, "check-update", v.checkUpdate, "Check github for a newer release")
	return cmd
}

func (v *versionCommand) RunE(_ *cobra.Command, _ []string) error {
	v.logger.Info("%s: %s-%s", config.ClientName, config.BuildVersion, config.BuildCommit)
	if config.BuildDate != "" {
		v.logger.Info("Built: %s", config.BuildDate)
	}

	if v.checkUpdate {
		if updateNotice := version.UpdateNotice(config.BuildVersion, githubRepo); updateNotice != "" {
			v.logger.Info(updateNotice)
		}
	}
	return nil
}
