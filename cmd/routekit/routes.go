package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/routekit/core/logger"
	"github.com/dmitrymomot/routekit/core/router"
	"github.com/dmitrymomot/routekit/pkg/ratelimiter"
)

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route table of the demo application",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			limiter, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), cfg.RateLimit)
			if err != nil {
				return err
			}

			app, err := newApp(deps{cfg: cfg, logger: logger.Discard(), limiter: limiter})
			if err != nil {
				return err
			}
			return printRoutes(cmd.OutOrStdout(), app.Routes())
		},
	}
}

func printRoutes(w io.Writer, routes []router.RouteInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METHODS\tPATTERN\tPIPELINES\tDELEGATED")
	for _, info := range routes {
		methods := strings.Join(info.Methods, ",")
		if methods == "" {
			methods = "*"
		}
		pipelines := strings.Join(info.Pipelines, " > ")
		if pipelines == "" {
			pipelines = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", methods, info.Pattern, pipelines, info.Delegated)
	}
	return tw.Flush()
}
