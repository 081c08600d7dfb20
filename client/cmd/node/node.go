package node

import (
	"github.com/spf13/cobra"
)

// NewNodeCommand initializes command for DataWorks nodes
func NewNodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Interact with DataWorks nodes",
		Annotations: map[string]string{
			"group:core": "true",
		},
	}

	cmd.AddCommand(NewPublishCommand())
	return cmd
}
