// Package cli holds the sentimentctl commands: mock data generation, source
// validation, and version reporting.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *slog.Logger
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "sentimentctl",
	Short: "Tooling for the department sentiment map",
	Long: `sentimentctl generates and checks the data files served by the
sentiment map service.

Example usage:
  sentimentctl genmock --seed 7 --out department_sentiment_analysis.json
  sentimentctl validate --sentiment department_sentiment_analysis.json --regions data/departments.geojson
  sentimentctl version --json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
