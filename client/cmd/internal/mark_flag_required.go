package internal

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

// MarkFlagsRequired marks every named local flag of cmd as required
func MarkFlagsRequired(cmd *cobra.Command, names ...string) error {
	var errs error
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("flag %s: %w", name, err))
		}
	}
	return errs
}
