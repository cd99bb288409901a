// Package cli implements the mockingj command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var buildVersion = "dev"

var rootCmd = &cobra.Command{
	Use:   "mockingj",
	Short: "Serve mock HTTP APIs generated from OpenAPI and Swagger specifications",
	Long: `mockingj turns an OpenAPI 3.x or Swagger 2.0 specification into a live
mock HTTP API. Every operation in the document is served with synthetic
response data that satisfies the declared response schema.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and exits non-zero on failure. The version string
// is injected by main from build-time information.
func Execute(version string) {
	if version != "" {
		buildVersion = version
	}
	rootCmd.Version = buildVersion
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
