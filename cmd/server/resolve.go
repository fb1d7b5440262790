package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/stitts-dev/player-stats-relay/internal/api"
	"github.com/stitts-dev/player-stats-relay/pkg/config"
	"github.com/stitts-dev/player-stats-relay/pkg/logger"
)

func newResolveCommand() *cobra.Command {
	var (
		season int
		points bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <name> [name...]",
		Short: "Resolve player names once and print the result as JSON",
		Long: `Resolve player names against the statistics provider without starting the
HTTP server. Output matches the batch endpoints.

Examples:
  player-stats-relay resolve "Erling Haaland"
  player-stats-relay resolve "Mohamed Salah" "Bukayo Saka" --points --season 2024`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
			// keep stdout clean for the JSON result
			log.SetOutput(cmd.ErrOrStderr())

			a := newApp(cfg, log)
			defer a.Close()

			var seasonOverride *int
			if cmd.Flags().Changed("season") {
				seasonOverride = &season
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
			defer cancel()

			return runResolve(ctx, a.services, args, seasonOverride, points, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&season, "season", 0, "Season year to select, e.g. 2024 (defaults to DEFAULT_SEASON)")
	cmd.Flags().BoolVar(&points, "points", false, "Include fantasy points for each player")

	return cmd
}

func runResolve(ctx context.Context, svc api.Services, names []string, season *int, withPoints bool, out io.Writer) error {
	var (
		result interface{}
		err    error
	)
	if withPoints {
		result, err = svc.Scoring.ScoreBatch(ctx, names, season)
	} else {
		result, err = svc.Resolver.Resolve(ctx, names, season)
	}
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
