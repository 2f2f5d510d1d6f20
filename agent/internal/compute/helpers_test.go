package compute

import (
	"testing"

	"github.com/Ckuran148/Jolt/pkg/types"
)

// num returns a pointer to v for ResultDouble fields.
func num(v float64) *float64 { return &v }

// answered builds a completed item with a text answer.
func answered(prompt string, ts int64) types.ItemResult {
	return types.ItemResult{
		ItemTemplate:        &types.ItemTemplate{Text: prompt},
		ResultValue:         "yes",
		CompletionTimestamp: ts,
	}
}

// reading builds a completed item with a numeric answer.
func reading(prompt string, ts int64, v float64) types.ItemResult {
	return types.ItemResult{
		ItemTemplate:        &types.ItemTemplate{Text: prompt},
		ResultDouble:        num(v),
		CompletionTimestamp: ts,
	}
}

// readings builds completed temperature readings gap seconds apart.
func readings(start, gap int64, vals ...float64) []types.ItemResult {
	out := make([]types.ItemResult, 0, len(vals))
	for i, v := range vals {
		out = append(out, reading("Product Temp", start+int64(i)*gap, v))
	}
	return out
}

// withSub wraps children in a parent item's sublist.
func withSub(prompt, title string, children ...types.ItemResult) types.ItemResult {
	return types.ItemResult{
		ItemTemplate: &types.ItemTemplate{Text: prompt},
		SubList:      &types.SubList{InstanceTitle: title, ItemResults: children},
	}
}

func hasIssue(issues []string, want string) bool {
	for _, is := range issues {
		if is == want {
			return true
		}
	}
	return false
}

// wantScore fails the test unless r carries exactly score.
func wantScore(t *testing.T, r IntegrityResult, score int) {
	t.Helper()
	if r.Score == nil {
		t.Fatalf("Score = nil, want %d (issues %v)", score, r.Issues)
	}
	if *r.Score != score {
		t.Errorf("Score = %d, want %d (issues %v)", *r.Score, score, r.Issues)
	}
}
