package cmd

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/odpf/salt/cmdx"
	cli "github.com/spf13/cobra"

	"github.com/ethan-root/Dataworks/client/cmd/datasource"
	"github.com/ethan-root/Dataworks/client/cmd/deploy"
	"github.com/ethan-root/Dataworks/client/cmd/node"
	"github.com/ethan-root/Dataworks/client/cmd/table"
	"github.com/ethan-root/Dataworks/client/cmd/version"
)

// New constructs the 'root' command. It houses all other sub commands
// default output of logging should go to stdout
// interactive output like progress bars should go to stderr
// unless the stdout/err is a tty, colors/progressbar should be disabled
func New() *cli.Command {
	cmd := &cli.Command{
		Use: "dataworks <command> <subcommand> [flags]",
		Long: heredoc.Doc(`
			Provision Alibaba Cloud DataWorks data integration resources from project
			directories: datasources, scheduled OSS to MaxCompute sync nodes and their
			publication, plus housekeeping of MaxCompute tables.

			DataWorks commands read the following environment variables:
			1. ALIBABA_CLOUD_ACCESS_KEY_ID
			2. ALIBABA_CLOUD_ACCESS_KEY_SECRET
			3. ALIYUN_REGION
			4. DATAWORKS_PROJECT_ID

			MaxCompute commands read the access key pair and:
			1. MAXCOMPUTE_PROJECT
			2. MAXCOMPUTE_ENDPOINT`),
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: heredoc.Doc(`
				$ dataworks deploy --projects Gucci
				$ dataworks deploy --step check_cli
				$ dataworks datasource create --type oss
				$ dataworks table clean --days 30 --execute
				$ dataworks node publish --node-name Gucci_t1
			`),
		Annotations: map[string]string{
			"group:core": "true",
			"help:learn": heredoc.Doc(`
				Use 'dataworks <command> <subcommand> --help' for more information about a command.
				Set DATAWORKS_LOG_LEVEL=debug to print request details.
			`),
			"help:feedback": heredoc.Doc(`
				Open an issue here https://github.com/ethan-root/Dataworks/issues
			`),
		},
	}

	cmdx.SetHelp(cmd)

	cmd.AddCommand(
		datasource.NewDatasourceCommand(),
		deploy.NewDeployCommand(),
		node.NewNodeCommand(),
		table.NewTableCommand(),
		version.NewVersionCommand(),
	)
	return cmd
}
