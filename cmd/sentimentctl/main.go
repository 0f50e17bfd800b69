// Command sentimentctl generates mock sentiment data and validates the
// sources served by the sentiment map.
package main

import (
	"os"

	"github.com/couchcryptid/sentiment-map/internal/cli"
)

// Set at build time via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cli.SetVersion(version)
	cli.SetCommit(commit)
	if err := cli.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
