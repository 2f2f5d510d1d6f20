package compute

import (
	"fmt"

	"github.com/Ckuran148/Jolt/pkg/types"
)

// Duration is the end-to-end completion span of a checklist tree.
// Seconds is nil when no item was completed; Text is then empty.
type Duration struct {
	Text    string `json:"text,omitempty"`
	Seconds *int64 `json:"seconds,omitempty"`
}

// ComputeDuration measures the span between the first and last completion
// event anywhere in the tree, sublists included.
func ComputeDuration(items []types.ItemResult) Duration {
	ts := completionTimes(items)
	switch len(ts) {
	case 0:
		return Duration{}
	case 1:
		var zero int64
		return Duration{Text: "< 1m", Seconds: &zero}
	}
	secs := spread(ts)
	return Duration{Text: FormatDuration(secs), Seconds: &secs}
}

// FormatDuration renders seconds as "{h}h {m}m", truncating partial minutes.
func FormatDuration(secs int64) string {
	return fmt.Sprintf("%dh %dm", secs/3600, (secs%3600)/60)
}
