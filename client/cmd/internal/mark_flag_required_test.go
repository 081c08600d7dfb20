package internal_test

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethan-root/Dataworks/client/cmd/internal"
)

func TestMarkFlagsRequired(t *testing.T) {
	t.Run("marks existing flags", func(t *testing.T) {
		cmd := &cobra.Command{Use: "create"}
		cmd.Flags().String("type", "", "")

		require.NoError(t, internal.MarkFlagsRequired(cmd, "type"))

		annotations := cmd.Flags().Lookup("type").Annotations
		assert.Equal(t, []string{"true"}, annotations[cobra.BashCompOneRequiredFlag])
	})
	t.Run("names every missing flag", func(t *testing.T) {
		cmd := &cobra.Command{Use: "create"}

		err := internal.MarkFlagsRequired(cmd, "type", "project-dir")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "flag type")
		assert.Contains(t, err.Error(), "flag project-dir")
	})
}
