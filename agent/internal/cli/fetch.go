package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ckuran148/Jolt/agent/internal/collector"
	"github.com/Ckuran148/Jolt/agent/internal/config"
	"github.com/Ckuran148/Jolt/agent/internal/jolt"
)

func newFetchCmd(opts *options) *cobra.Command {
	var (
		configPath, location, outPath string
		month                         bool
	)
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download one location's lists for offline analysis",
		Long: `Queries the checklist API with the agent's config and writes the raw list
instances as JSON, ready for the other subcommands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			tz, err := cfg.Agent.Location()
			if err != nil {
				return err
			}
			now, err := opts.clock()
			if err != nil {
				return err
			}
			now = now.In(tz)

			start, end := collector.DayRange(now)
			if month {
				start, end = collector.MonthRange(now)
			}

			client := jolt.New(cfg.Agent.Jolt, cfg.Agent.RatePerSecond)
			lists, err := client.ListInstances(cmd.Context(), location, start, end)
			if err != nil {
				return err
			}
			slog.Info("cli: fetched lists", "location", location, "count", len(lists))

			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", outPath, err)
				}
				defer f.Close()
				out = f
			}
			return writeJSON(out, lists)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "config.yaml", "Path to the agent config file")
	cmd.Flags().StringVar(&location, "location", "", "Location id to fetch")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write JSON to this file instead of stdout")
	cmd.Flags().BoolVar(&month, "month", false, "Fetch the whole month instead of today")
	_ = cmd.MarkFlagRequired("location")
	return cmd
}
