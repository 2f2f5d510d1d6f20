package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Ckuran148/Jolt/agent/internal/compute"
	"github.com/Ckuran148/Jolt/pkg/types"
)

func newAnalyzeCmd(opts *options) *cobra.Command {
	var withItems bool
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Summarize every list in a saved document",
		Long: `Runs status, duration, integrity, corrective action, sanitizer and
temperature analysis over each list in the file and prints one line per list.

Use - to read from stdin.`,
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

			summaries := make([]types.ListSummary, len(lists))
			for i := range lists {
				summaries[i] = compute.SummarizeList(&lists[i], now)
				if !withItems {
					summaries[i].Items = nil
				}
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, summaries)
			}
			if len(summaries) == 0 {
				fmt.Fprintln(out, "No lists found.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TITLE\tSTATUS\tDAYPART\tINTEGRITY\tDURATION\tCA\tSANITIZER")
			for _, s := range summaries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
					s.Title, s.Status, orDash(s.Daypart), scoreText(s.Integrity),
					orDash(s.Duration), s.CorrectiveActions, compute.SanitizerLabel(s.Expiration))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&withItems, "items", false, "Include the raw item tree in JSON output")
	return cmd
}
