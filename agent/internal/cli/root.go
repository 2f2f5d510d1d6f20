package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ckuran148/Jolt/agent/internal/compute"
	"github.com/Ckuran148/Jolt/pkg/types"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	jsonOut bool
	now     string
	verbose bool
}

// NewRootCmd builds the joltctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "joltctl",
		Short:         "Run the checklist analytics over saved list JSON",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "Output as JSON")
	root.PersistentFlags().StringVar(&opts.now, "now", "", "Evaluation time (RFC 3339 or YYYY-MM-DD); defaults to the current time")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging on stderr")

	root.AddCommand(
		newAnalyzeCmd(opts),
		newIntegrityCmd(opts),
		newReportCmd(opts),
		newStoreCmd(opts),
		newFetchCmd(opts),
		newCertCmd(opts),
	)
	return root
}

// Execute runs joltctl and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// clock resolves --now.
func (o *options) clock() (time.Time, error) {
	if o.now == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, o.now); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(compute.DateLayout, o.now, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("--now %q: want RFC 3339 or YYYY-MM-DD", o.now)
	}
	// Noon keeps "today" stable whatever the zone.
	return t.Add(12 * time.Hour), nil
}

// readLists loads list instances from path ("-" reads stdin). It accepts a
// single list, an array of lists, or a GraphQL response envelope.
func readLists(cmd *cobra.Command, path string) ([]types.ListInstance, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	lists, err := decodeLists(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	slog.Debug("cli: lists loaded", "path", path, "count", len(lists))
	return lists, nil
}

func decodeLists(data []byte) ([]types.ListInstance, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	if data[0] == '[' {
		var lists []types.ListInstance
		if err := json.Unmarshal(data, &lists); err != nil {
			return nil, err
		}
		return lists, nil
	}

	var envelope struct {
		Data *struct {
			ListInstances []types.ListInstance `json:"listInstances"`
		} `json:"data"`
		ListInstances []types.ListInstance `json:"listInstances"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	switch {
	case envelope.Data != nil:
		return envelope.Data.ListInstances, nil
	case envelope.ListInstances != nil:
		return envelope.ListInstances, nil
	}

	var list types.ListInstance
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return []types.ListInstance{list}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func scoreText(score *int) string {
	if score == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d%%", *score)
}
