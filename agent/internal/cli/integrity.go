package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ckuran148/Jolt/agent/internal/compute"
)

// integrityResult is the JSON shape of one scored list.
type integrityResult struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Score    *int     `json:"score"`
	Band     string   `json:"band"`
	Duration string   `json:"duration,omitempty"`
	Issues   []string `json:"issues"`
}

func newIntegrityCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "integrity <file>",
		Short: "Score the data integrity of each list",
		Long: `Scores every list regardless of title or completion state and prints the
deductions that produced the score.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lists, err := readLists(cmd, args[0])
			if err != nil {
				return err
			}

			results := make([]integrityResult, 0, len(lists))
			for i := range lists {
				l := &lists[i]
				dur := compute.ComputeDuration(l.ItemResults)
				r := compute.ComputeIntegrity(l.ItemResults, l.Title(), dur.Seconds)
				issues := r.Issues
				if issues == nil {
					issues = []string{}
				}
				results = append(results, integrityResult{
					ID:       l.ID,
					Title:    l.Title(),
					Score:    r.Score,
					Band:     compute.IntegrityBand(r.Score),
					Duration: dur.Text,
					Issues:   issues,
				})
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, results)
			}
			for _, r := range results {
				fmt.Fprintf(out, "%s  %s (%s)\n", scoreText(r.Score), orDash(r.Title), r.Band)
				if r.Duration != "" {
					fmt.Fprintf(out, "  duration: %s\n", r.Duration)
				}
				for _, issue := range r.Issues {
					fmt.Fprintf(out, "  - %s\n", issue)
				}
			}
			return nil
		},
	}
}
