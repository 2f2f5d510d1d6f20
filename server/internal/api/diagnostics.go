package api

import (
	"fmt"
	"strings"

	"github.com/Ckuran148/Jolt/pkg/types"
)

// DiagnosticHint is one human-readable insight about a checklist.
// The UI displays these as chips on the list drill-down; clicking one shows
// Detail.
type DiagnosticHint struct {
	// Key is a stable machine-readable identifier (used for dedup/ordering).
	Key string `json:"key"`
	// Level is "ok" | "info" | "warning" | "critical"
	Level string `json:"level"`
	// Title is a short label shown on the chip.
	Title string `json:"title"`
	// Detail is the full explanation shown on click/hover.
	Detail string `json:"detail"`
	// Value is an optional numeric value associated with this hint.
	Value *float64 `json:"value,omitempty"`
}

// issueHint maps an integrity issue label prefix to its hint.
type issueHint struct {
	prefix string
	key    string
	level  string
	detail string
}

var issueHints = []issueHint{
	{"Speed Detection", "speed_too_fast", "critical",
		"Most items were completed within a few seconds of each other. " +
			"Real temperature checks take time to walk between stations; " +
			"entries this fast usually mean the list was filled from memory."},
	{"Potential Rapid Entry", "rapid_entry", "warning",
		"Many consecutive items were completed unusually quickly. " +
			"Ask the shift lead to confirm the readings were taken at the equipment."},
	{"Manual Entry Suspected", "no_decimals", "warning",
		"Almost every temperature is a whole number. Probe readings normally " +
			"carry a decimal, so these were likely typed in by hand."},
	{"Identical Temperatures", "identical_temps", "critical",
		"Every temperature on the list is the same value. " +
			"This almost never happens with real readings."},
	{"High Duplicate Temps", "duplicate_temps", "warning",
		"A large share of the temperatures repeat exactly. " +
			"Check whether the same reading was copied across items."},
	{"Rapid Similar/Same Temps", "rapid_similar", "warning",
		"Items completed back to back carry the same or nearly the same temperature."},
	{"Excessive N/A", "excessive_na", "critical",
		"Most items were marked N/A. Required checks may have been skipped."},
	{"High N/A Usage", "high_na", "warning",
		"A high share of items were marked N/A."},
	{"Sublist", "sublist", "warning",
		"A product sublist was completed too quickly or failed its own integrity check."},
	{"Full List <", "full_list_fast", "critical",
		"The whole list was completed faster than the minimum time a real walk-through takes."},
}

var levelOrder = map[string]int{"critical": 0, "warning": 1, "info": 2, "ok": 3}

// computeDiagnostics derives diagnostic hints from a list summary.
// Hints are ordered: critical first, then warnings, then info.
func computeDiagnostics(l types.ListSummary) []DiagnosticHint {
	var hints []DiagnosticHint

	for _, issue := range l.Issues {
		hints = append(hints, hintForIssue(issue))
	}

	if l.Integrity != nil && *l.Integrity < 100 {
		v := float64(*l.Integrity)
		level := "info"
		switch l.Band {
		case types.BandLow:
			level = "critical"
		case types.BandMedium:
			level = "warning"
		}
		hints = append(hints, DiagnosticHint{
			Key:    "integrity_score",
			Level:  level,
			Title:  fmt.Sprintf("Integrity %d/100", *l.Integrity),
			Detail: "The integrity score starts at 100 and loses points for each pattern above.",
			Value:  &v,
		})
	}

	if l.Status == types.StatusLate {
		hints = append(hints, DiagnosticHint{
			Key:    "late",
			Level:  "warning",
			Title:  "Past deadline",
			Detail: fmt.Sprintf("The list passed its deadline with %d item(s) still open.", l.IncompleteCount),
		})
	}

	if l.CorrectiveActions > 0 {
		v := float64(l.CorrectiveActions)
		hints = append(hints, DiagnosticHint{
			Key:    "corrective_actions",
			Level:  "info",
			Title:  fmt.Sprintf("%d corrective action(s)", l.CorrectiveActions),
			Detail: "Items on this list were out of range and a remediation was logged.",
			Value:  &v,
		})
	}

	switch {
	case l.Expiration.Expired:
		hints = append(hints, DiagnosticHint{Key: "sanitizer_expired", Level: "critical", Title: "Sanitizer expired",
			Detail: "A sanitizer or test-strip expiration date on this list is in the past."})
	case l.Expiration.Expiring:
		hints = append(hints, DiagnosticHint{Key: "sanitizer_expiring", Level: "warning", Title: "Sanitizer expiring",
			Detail: "A sanitizer or test-strip expiration date on this list is today."})
	case l.Expiration.Warning:
		hints = append(hints, DiagnosticHint{Key: "sanitizer_warning", Level: "info", Title: "Sanitizer expires soon",
			Detail: "A sanitizer or test-strip expiration date on this list falls within the next week."})
	}

	if len(hints) == 0 {
		hints = append(hints, DiagnosticHint{
			Key:    "healthy",
			Level:  "ok",
			Title:  "All clear",
			Detail: "No integrity issues, corrective actions or expiration problems were found on this list.",
		})
	}

	sortHints(hints)
	return hints
}

func hintForIssue(issue string) DiagnosticHint {
	for _, h := range issueHints {
		if strings.HasPrefix(issue, h.prefix) {
			return DiagnosticHint{Key: h.key, Level: h.level, Title: issue, Detail: h.detail}
		}
	}
	return DiagnosticHint{Key: "integrity_issue", Level: "warning", Title: issue, Detail: issue}
}

// sortHints is a stable insertion sort by level; lists are short.
func sortHints(hints []DiagnosticHint) {
	for i := 1; i < len(hints); i++ {
		for j := i; j > 0 && levelOrder[hints[j].Level] < levelOrder[hints[j-1].Level]; j-- {
			hints[j], hints[j-1] = hints[j-1], hints[j]
		}
	}
}
