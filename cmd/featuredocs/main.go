// Command featuredocs builds a documentation site whose navigation includes
// rendered Gherkin feature specifications.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-featuredocs/internal/logging"
	"github.com/goliatone/go-featuredocs/internal/logging/gologger"
	"github.com/goliatone/go-featuredocs/internal/site"
	"github.com/goliatone/go-featuredocs/pkg/interfaces"
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "featuredocs",
		Short:         "Build documentation sites with Gherkin feature pages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "site.yaml", "site configuration file")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console|json|pretty)")

	cmd.AddCommand(buildCmd())
	cmd.AddCommand(serveCmd())
	return cmd
}

func buildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the site once",
		RunE: func(cmd *cobra.Command, args []string) error {
			builder, _, err := newBuilder()
			if err != nil {
				return err
			}
			result, err := builder.Build(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Built %d pages into %s in %s\n",
				result.Pages, result.OutputDir, result.Duration.Round(time.Millisecond))
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Build the site and rebuild on changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			builder, provider, err := newBuilder()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if _, err := builder.Build(ctx); err != nil {
				return err
			}

			logger := logging.SiteLogger(provider)
			watcher := site.NewWatcher(builder.WatchPaths(), debounce, logger, func(ctx context.Context) {
				if _, err := builder.Build(ctx); err != nil {
					logger.Error("rebuild failed", "error", err)
				}
			})

			err = watcher.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 0, "delay before rebuilding after a change")
	return cmd
}

func newBuilder() (*site.Builder, interfaces.LoggerProvider, error) {
	provider, err := gologger.NewProvider(gologger.Config{
		Level:  logLevel,
		Format: logFormat,
	})
	if err != nil {
		return nil, nil, err
	}

	cfg, err := site.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	builder, err := site.NewBuilder(cfg, provider)
	if err != nil {
		return nil, nil, err
	}
	return builder, provider, nil
}
