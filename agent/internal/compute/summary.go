package compute

import (
	"math"
	"strconv"
	"time"

	"github.com/Ckuran148/Jolt/pkg/types"
)

// DateLayout is the calendar-day key used in reports and history.
const DateLayout = "2006-01-02"

const untitledList = "Untitled"

// SummarizeList runs every calculator over one list instance. Integrity is
// only scored for completed food-safety lists; audit lists get an audit
// percentage instead.
func SummarizeList(list *types.ListInstance, now time.Time) types.ListSummary {
	title := list.Title()
	if title == "" {
		title = untitledList
	}
	items := list.ItemResults
	dur := ComputeDuration(items)

	s := types.ListSummary{
		ID:                list.ID,
		Title:             title,
		Status:            ListStatus(list, now),
		Daypart:           DaypartOf(title),
		DisplayTimestamp:  list.DisplayTimestamp,
		DeadlineTimestamp: list.DeadlineTimestamp,
		IncompleteCount:   list.IncompleteCount,
		Duration:          dur.Text,
		DurationSeconds:   dur.Seconds,
		Band:              types.BandNA,
		CorrectiveActions: CountCorrectiveActions(items),
		Expiration:        CheckExpiration(items, now),
		Stats:             ExtractReportStats(items),
		Items:             items,
	}

	if IsTargetList(title) && list.IncompleteCount == 0 && !isAuditOrAgenda(title) {
		r := ComputeIntegrity(items, title, dur.Seconds)
		s.Integrity = r.Score
		s.Issues = r.Issues
		s.Band = IntegrityBand(r.Score)
	}
	if isScoredAudit(title) {
		s.AuditPct = auditPct(list)
	}
	return s
}

// auditPct returns score as a percentage of the maximum possible score,
// falling back to the computed possible count when the API omits a maximum.
func auditPct(list *types.ListInstance) *int {
	if list.Score == nil {
		return nil
	}
	var maxScore float64
	if list.MaxPossibleScore != nil {
		maxScore = *list.MaxPossibleScore
	}
	if maxScore == 0 {
		maxScore = float64(ComputeAuditScore(list.ItemResults).Possible)
	}
	pct := 0
	if maxScore > 0 {
		pct = roundPct(*list.Score / maxScore)
	}
	return &pct
}

// BuildStoreReport assembles the daypart grid cells, the combined sanitizer
// label, the DFSL report and every list summary for one location.
func BuildStoreReport(loc types.Location, market, district string, lists []types.ListInstance, now time.Time) types.StoreReport {
	r := types.StoreReport{
		LocationID:   loc.ID,
		LocationName: loc.Name,
		Market:       market,
		District:     district,
		Date:         now.Format(DateLayout),
		GeneratedAt:  now,
		Dayparts:     make([]types.DaypartCell, len(types.Dayparts)),
	}
	for i, dp := range types.Dayparts {
		r.Dayparts[i] = types.DaypartCell{Daypart: dp, Status: types.StatusMissing, Band: types.BandNA}
	}

	ordered := make([]types.ListInstance, len(lists))
	copy(ordered, lists)
	SortLists(ordered)

	var exp types.ExpirationStatus
	r.Lists = make([]types.ListSummary, 0, len(ordered))
	for i := range ordered {
		sum := SummarizeList(&ordered[i], now)
		exp.Merge(sum.Expiration)
		r.Lists = append(r.Lists, sum)
		// Newest list wins a daypart slot.
		if c := r.Cell(sum.Daypart); c != nil && c.Status == types.StatusMissing {
			fillCell(c, &ordered[i], &sum, now)
		}
	}
	r.Sanitizer = SanitizerLabel(exp)
	dfsl := BuildDFSLReport(ordered, now)
	r.DFSL = &dfsl
	return r
}

// fillCell writes a daypart list into its grid cell. The grid never shows
// Upcoming; a not-yet-late list reads In Progress.
func fillCell(c *types.DaypartCell, list *types.ListInstance, sum *types.ListSummary, now time.Time) {
	status := types.StatusInProgress
	switch {
	case list.IncompleteCount == 0:
		status = types.StatusComplete
	case list.DeadlineTimestamp > 0 && list.DeadlineTimestamp < now.Unix():
		status = types.StatusLate
	}
	stats := sum.Stats
	*c = types.DaypartCell{
		Daypart:           c.Daypart,
		Status:            status,
		ListID:            list.ID,
		Title:             sum.Title,
		IntegrityScore:    sum.Integrity,
		Band:              sum.Band,
		Issues:            sum.Issues,
		Duration:          sum.Duration,
		DurationSeconds:   sum.DurationSeconds,
		CorrectiveActions: sum.CorrectiveActions,
		Stats:             &stats,
	}
	if sum.Integrity != nil {
		c.Integrity = strconv.Itoa(*sum.Integrity) + "%"
	}
}

// BuildSafetyRow finds the month's safety audit and committee agenda among
// lists and reports their completion.
func BuildSafetyRow(lists []types.ListInstance, month string) types.SafetyRow {
	row := types.SafetyRow{
		Month:        month,
		AuditStatus:  types.StatusMissing,
		AgendaStatus: types.StatusMissing,
	}
	var audit, agenda *types.ListInstance
	for i := range lists {
		title := lists[i].Title()
		if audit == nil && IsAuditList(title) {
			audit = &lists[i]
		}
		if agenda == nil && IsAgendaList(title) {
			agenda = &lists[i]
		}
	}
	if audit != nil {
		row.AuditStatus = completion(audit)
		if pct := auditPct(audit); pct != nil {
			row.AuditPct = pct
			row.AuditScore = strconv.Itoa(*pct) + "%"
		}
	}
	if agenda != nil {
		row.AgendaStatus = completion(agenda)
	}
	row.Complete = row.AuditStatus == types.StatusComplete && row.AgendaStatus == types.StatusComplete
	return row
}

func completion(list *types.ListInstance) string {
	if list.IncompleteCount == 0 {
		return types.StatusComplete
	}
	return types.StatusInProgress
}

// FormatNumber renders a numeric answer: integers without a fraction, others
// with one decimal.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
