package compute

import (
	"math"
	"strings"
	"time"

	"github.com/Ckuran148/Jolt/pkg/types"
)

// Temperature bucket bounds in °F. Readings inside [coldBelow, hotAbove] are
// ambient and not bucketed.
const (
	coldBelow = 50.0
	hotAbove  = 130.0
)

// expirationWarnDays is how far ahead a sanitizer expiry raises a warning.
const expirationWarnDays = 7

// AuditScore is a completion-rate score for formal audit lists.
type AuditScore struct {
	Earned   int `json:"earned"`
	Possible int `json:"possible"`
	Pct      int `json:"pct"`
}

// CountCorrectiveActions counts nodes at any depth that carry at least one
// corrective action.
func CountCorrectiveActions(items []types.ItemResult) int {
	n := 0
	Walk(items, func(it *types.ItemResult) {
		if it.HasCorrectiveAction() {
			n++
		}
	})
	return n
}

// CheckExpiration scans sanitizer expiration-date items and classifies each
// date against today's local midnight. Matches combine with OR.
func CheckExpiration(items []types.ItemResult, today time.Time) types.ExpirationStatus {
	var st types.ExpirationStatus
	day := midnight(today)
	Walk(items, func(it *types.ItemResult) {
		prompt := it.Prompt()
		if !strings.Contains(prompt, "Sanitizer") || !strings.Contains(prompt, "Exp. Date") {
			return
		}
		if it.ResultDouble == nil || *it.ResultDouble <= 0 {
			return
		}
		switch classifyDate(*it.ResultDouble, day) {
		case types.CellStyleExpired:
			st.Expired = true
		case types.CellStyleToday:
			st.Expiring = true
		case types.CellStyleWarning:
			st.Warning = true
		}
	})
	return st
}

// classifyDate compares a unix-seconds date with day (a local midnight) and
// returns the matching cell style, or "" when the date is more than a week
// away.
func classifyDate(unixSecs float64, day time.Time) string {
	d := midnight(unixTime(unixSecs).In(day.Location()))
	switch {
	case d.Before(day):
		return types.CellStyleExpired
	case d.Equal(day):
		return types.CellStyleToday
	case !d.After(day.AddDate(0, 0, expirationWarnDays)):
		return types.CellStyleWarning
	default:
		return types.CellStyleNone
	}
}

// ExtractReportStats buckets every non-zero numeric answer into cold and hot
// extremes and counts N/A answers anywhere in the tree.
func ExtractReportStats(items []types.ItemResult) types.ReportStats {
	var st types.ReportStats
	Walk(items, func(it *types.ItemResult) {
		if it.IsMarkedNA {
			st.NACount++
		}
		if it.ResultDouble == nil || *it.ResultDouble == 0 {
			return
		}
		v := *it.ResultDouble
		switch {
		case v < coldBelow:
			st.ColdMin, st.ColdMax = extend(st.ColdMin, st.ColdMax, v)
			st.ColdCount++
		case v > hotAbove:
			st.HotMin, st.HotMax = extend(st.HotMin, st.HotMax, v)
			st.HotCount++
		}
	})
	return st
}

func extend(lo, hi *float64, v float64) (*float64, *float64) {
	if lo == nil || v < *lo {
		lo = floatPtr(v)
	}
	if hi == nil || v > *hi {
		hi = floatPtr(v)
	}
	return lo, hi
}

// ComputeAuditScore counts non-TEXT, non-N/A items as possible and the
// completed ones among them as earned.
func ComputeAuditScore(items []types.ItemResult) AuditScore {
	var s AuditScore
	Walk(items, func(it *types.ItemResult) {
		if it.IsText() || it.IsMarkedNA {
			return
		}
		s.Possible++
		if it.CompletionTimestamp > 0 {
			s.Earned++
		}
	})
	if s.Possible > 0 {
		s.Pct = roundPct(float64(s.Earned) / float64(s.Possible))
	}
	return s
}

// roundPct converts a ratio to a whole percentage, rounding halves up.
func roundPct(ratio float64) int {
	return int(math.Floor(ratio*100 + 0.5))
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func unixTime(secs float64) time.Time {
	whole := math.Floor(secs)
	return time.Unix(int64(whole), int64((secs-whole)*1e9))
}

func floatPtr(v float64) *float64 { return &v }
