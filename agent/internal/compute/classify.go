package compute

import (
	"sort"
	"strings"
	"time"

	"github.com/Ckuran148/Jolt/pkg/types"
)

// Thresholds that map an integrity score to a band.
const (
	ThresholdHigh   = 85
	ThresholdMedium = 60
)

// targetListTags mark food-safety lists whose integrity is scored. Matched
// case-sensitively against the list title.
var targetListTags = []string{"🟧", "DFSL", "FSL", "Food Safety"}

// IntegrityBand maps a score to high, medium, low or na.
func IntegrityBand(score *int) string {
	switch {
	case score == nil:
		return types.BandNA
	case *score >= ThresholdHigh:
		return types.BandHigh
	case *score >= ThresholdMedium:
		return types.BandMedium
	default:
		return types.BandLow
	}
}

// IsTargetList reports whether a list title marks a food-safety list.
func IsTargetList(title string) bool {
	return containsAny(title, targetListTags)
}

// isSafetyList is the case-insensitive variant used for ordering.
func isSafetyList(title string) bool {
	return containsAny(strings.ToLower(title), []string{"fsl", "dfsl", "🟧", "food safety"})
}

// IsAuditList reports whether a title names the monthly safety audit.
func IsAuditList(title string) bool {
	return strings.Contains(strings.ToLower(title), "monthly safety audit")
}

// IsAgendaList reports whether a title names the safety committee agenda.
func IsAgendaList(title string) bool {
	return strings.Contains(strings.ToLower(title), "safety committee agenda")
}

// isScoredAudit reports whether a list carries an audit score rather than
// completion-quality signals.
func isScoredAudit(title string) bool {
	lower := strings.ToLower(title)
	return strings.Contains(lower, "audit") && !strings.Contains(lower, "agenda")
}

// isAuditOrAgenda reports whether duration and integrity are meaningless for
// the list.
func isAuditOrAgenda(title string) bool {
	lower := strings.ToLower(title)
	return strings.Contains(lower, "audit") || strings.Contains(lower, "agenda")
}

// ListStatus classifies a list instance at now.
func ListStatus(list *types.ListInstance, now time.Time) string {
	ts := now.Unix()
	switch {
	case list.IncompleteCount == 0:
		return types.StatusComplete
	case list.DeadlineTimestamp > 0 && list.DeadlineTimestamp < ts:
		return types.StatusLate
	case list.DisplayTimestamp > ts:
		return types.StatusUpcoming
	default:
		return types.StatusInProgress
	}
}

// DaypartOf returns the grid bucket of a DFSL/FSL list title, or "".
func DaypartOf(title string) string {
	lower := strings.ToLower(title)
	if !strings.Contains(lower, "fsl") {
		return ""
	}
	return daypartSuffix(lower)
}

// reportDaypartOf also accepts "food safety" titles, as the DFSL report does.
func reportDaypartOf(title string) string {
	lower := strings.ToLower(title)
	if !strings.Contains(lower, "fsl") && !strings.Contains(lower, "food safety") {
		return ""
	}
	return daypartSuffix(lower)
}

func daypartSuffix(lower string) string {
	switch {
	case strings.Contains(lower, "daypart 1"):
		return types.Daypart1
	case strings.Contains(lower, "daypart 3"):
		return types.Daypart3
	case strings.Contains(lower, "daypart 5"):
		return types.Daypart5
	default:
		return ""
	}
}

// SanitizerLabel returns the most severe label of an expiration status.
func SanitizerLabel(st types.ExpirationStatus) string {
	switch {
	case st.Expired:
		return types.SanitizerExpired
	case st.Expiring:
		return types.SanitizerExpiring
	case st.Warning:
		return types.SanitizerWarning
	default:
		return types.SanitizerOK
	}
}

// SortLists orders lists with food-safety lists first, then newest display
// time first. The sort is stable.
func SortLists(lists []types.ListInstance) {
	sort.SliceStable(lists, func(i, j int) bool {
		si, sj := isSafetyList(lists[i].Title()), isSafetyList(lists[j].Title())
		if si != sj {
			return si
		}
		return lists[i].DisplayTimestamp > lists[j].DisplayTimestamp
	})
}
