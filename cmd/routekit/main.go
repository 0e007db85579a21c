// Command routekit runs a demo application on the routekit router and
// inspects its route table.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "routekit",
		Short: "Segment-tree HTTP router with typed extraction and middleware pipelines",
		Long: `routekit serves a demo application built on the routekit router.

Configuration is read from the environment and an optional .env file:
  SERVER_*      listener and timeouts
  ROUTER_*      path normalization, request id header, log level
  RATELIMIT_*   token bucket and optional Redis store
  BASIC_AUTH_*  credentials protecting /admin`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		routesCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "routekit %s (%s)\n", version, commit)
		},
	}
}
