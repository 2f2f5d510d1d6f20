package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ckuran148/Jolt/agent/internal/compute"
	"github.com/Ckuran148/Jolt/agent/internal/metadata"
	"github.com/Ckuran148/Jolt/pkg/types"
)

func newStoreCmd(opts *options) *cobra.Command {
	var (
		id, name, sheetPath string
		withItems           bool
	)
	cmd := &cobra.Command{
		Use:   "store <file>",
		Short: "Build the full store report the agent would ship",
		Long: `Builds the daypart grid, sanitizer label, DFSL report and list summaries for
one location. With --metadata the location name is matched against the sheet
to assign market and district.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := opts.clock()
			if err != nil {
				return err
			}
			lists, err := readLists(cmd, args[0])
			if err != nil {
				return err
			}

			sheet := &metadata.Sheet{}
			if sheetPath != "" {
				if sheet, err = metadata.Load(sheetPath); err != nil {
					return err
				}
			}
			market, district := sheet.Assign(name)

			report := compute.BuildStoreReport(types.Location{ID: id, Name: name}, market, district, lists, now)
			if !withItems {
				for i := range report.Lists {
					report.Lists[i].Items = nil
				}
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, report)
			}
			fmt.Fprintf(out, "%s  (%s / %s)  %s\n", orDash(report.LocationName), report.Market, report.District, report.Date)
			for _, c := range report.Dayparts {
				fmt.Fprintf(out, "  %s  %-11s  %-4s  %s\n", c.Daypart, c.Status, scoreText(c.IntegrityScore), orDash(c.Duration))
			}
			fmt.Fprintf(out, "  sanitizer: %s\n", report.Sanitizer)
			fmt.Fprintf(out, "  lists: %d\n", len(report.Lists))
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "local", "Location id")
	cmd.Flags().StringVar(&name, "name", "", "Location name, used for metadata matching")
	cmd.Flags().StringVar(&sheetPath, "metadata", "", "Path to the site/store/market/district CSV")
	cmd.Flags().BoolVar(&withItems, "items", false, "Include the raw item trees in JSON output")
	return cmd
}
