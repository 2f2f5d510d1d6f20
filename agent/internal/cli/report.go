package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ckuran148/Jolt/agent/internal/compute"
	"github.com/Ckuran148/Jolt/pkg/types"
)

func newReportCmd(opts *options) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Render the daily food safety report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := opts.clock()
			if err != nil {
				return err
			}
			if date != "" {
				if day, err = time.ParseInLocation(compute.DateLayout, date, time.Local); err != nil {
					return fmt.Errorf("--date %q: want YYYY-MM-DD", date)
				}
			}
			lists, err := readLists(cmd, args[0])
			if err != nil {
				return err
			}
			compute.SortLists(lists)
			report := compute.BuildDFSLReport(lists, day)

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, report)
			}
			printReport(cmd, report)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Report date (YYYY-MM-DD); defaults to --now")
	return cmd
}

func printReport(cmd *cobra.Command, report types.DFSLReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Daily Food Safety Report  %s\n", report.Date)
	for _, sec := range report.Sections {
		fmt.Fprintf(out, "\n%s\n", sec.Title)
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "\t%s\n", strings.ToUpper(strings.Join(types.Dayparts, "\t")))
		for _, row := range sec.Rows {
			cells := make([]string, len(row.Cells))
			for i, c := range row.Cells {
				cells[i] = orDash(c.Value)
				if c.Style != types.CellStyleNone {
					cells[i] += " [" + c.Style + "]"
				}
			}
			fmt.Fprintf(tw, "%s\t%s\n", row.Label, strings.Join(cells, "\t"))
		}
		tw.Flush()
	}
}
