package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player-stats-relay",
		Short: "Batch player statistics relay",
		Long: `Resolve player names against the football statistics provider and return
normalized season stats.

Examples:
  player-stats-relay serve
  player-stats-relay resolve "Erling Haaland" "Bukayo Saka" --points`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newResolveCommand())

	return cmd
}
