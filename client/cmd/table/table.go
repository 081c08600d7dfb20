package table

import (
	"github.com/spf13/cobra"
)

// NewTableCommand initializes command for MaxCompute tables
func NewTableCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Manage MaxCompute tables",
		Annotations: map[string]string{
			"group:core": "true",
		},
	}

	cmd.AddCommand(NewCreateCommand())
	cmd.AddCommand(NewCleanCommand())
	return cmd
}
