package internal

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/ethan-root/Dataworks/config"
)

// WriteGithubOutput appends key=value to the file named by GITHUB_OUTPUT. It reports
// false without error when the variable is unset.
func WriteGithubOutput(fileFS afero.Fs, key, value string) (bool, error) {
	outputPath := strings.TrimSpace(os.Getenv(config.EnvGithubOutput))
	if outputPath == "" {
		return false, nil
	}

	f, err := fileFS.OpenFile(outputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, fmt.Errorf("error opening [%s]: %w", outputPath, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s=%s\n", key, value); err != nil {
		return false, fmt.Errorf("error writing [%s]: %w", outputPath, err)
	}
	return true, nil
}
