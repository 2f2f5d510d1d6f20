package types

import "time"

// Daypart bucket identifiers, in display order.
const (
	Daypart1 = "dp1"
	Daypart3 = "dp3"
	Daypart5 = "dp5"
)

// Dayparts lists the tracked daypart buckets in display order.
var Dayparts = []string{Daypart1, Daypart3, Daypart5}

// List and cell status labels.
const (
	StatusMissing    = "Missing"
	StatusComplete   = "Complete"
	StatusInProgress = "In Progress"
	StatusLate       = "Late"
	StatusUpcoming   = "Upcoming"
)

// Sanitizer labels, in descending severity.
const (
	SanitizerExpired  = "EXPIRED"
	SanitizerExpiring = "Expiring"
	SanitizerWarning  = "Warning"
	SanitizerOK       = "OK"
)

// SanitizerSeverity orders sanitizer labels by severity, 0 being OK.
func SanitizerSeverity(label string) int {
	switch label {
	case SanitizerExpired:
		return 3
	case SanitizerExpiring:
		return 2
	case SanitizerWarning:
		return 1
	default:
		return 0
	}
}

// Integrity bands.
const (
	BandNA     = "na"
	BandLow    = "low"
	BandMedium = "medium"
	BandHigh   = "high"
)

// ExpirationStatus is the combined sanitizer expiration state of one or more
// checklist trees. Flags only ever turn on.
type ExpirationStatus struct {
	Expired  bool `json:"expired"`
	Expiring bool `json:"expiring"`
	Warning  bool `json:"warning"`
}

// Merge ORs other into s.
func (s *ExpirationStatus) Merge(other ExpirationStatus) {
	s.Expired = s.Expired || other.Expired
	s.Expiring = s.Expiring || other.Expiring
	s.Warning = s.Warning || other.Warning
}

// ReportStats holds the cold/hot temperature extremes of a checklist tree.
// Min and max are nil while the bucket is empty.
type ReportStats struct {
	ColdMin   *float64 `json:"coldMin"`
	ColdMax   *float64 `json:"coldMax"`
	ColdCount int      `json:"coldCount"`
	HotMin    *float64 `json:"hotMin"`
	HotMax    *float64 `json:"hotMax"`
	HotCount  int      `json:"hotCount"`
	NACount   int      `json:"naCount"`
}

// ListSummary is the analysed form of one fetched list instance.
type ListSummary struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	Status            string           `json:"status"`
	Daypart           string           `json:"daypart,omitempty"`
	DisplayTimestamp  int64            `json:"displayTimestamp,omitempty"`
	DeadlineTimestamp int64            `json:"deadlineTimestamp,omitempty"`
	IncompleteCount   int              `json:"incompleteCount"`
	Duration          string           `json:"duration,omitempty"`
	DurationSeconds   *int64           `json:"durationSeconds,omitempty"`
	Integrity         *int             `json:"integrity,omitempty"`
	Band              string           `json:"band"`
	Issues            []string         `json:"issues,omitempty"`
	CorrectiveActions int              `json:"correctiveActions"`
	Expiration        ExpirationStatus `json:"expiration"`
	Stats             ReportStats      `json:"stats"`
	AuditPct          *int             `json:"auditPct,omitempty"`
	Items             []ItemResult     `json:"items,omitempty"`
}

// DaypartCell is one daypart column of the ops grid for a store.
type DaypartCell struct {
	Daypart           string       `json:"daypart"`
	Status            string       `json:"status"`
	ListID            string       `json:"listId,omitempty"`
	Title             string       `json:"title,omitempty"`
	Integrity         string       `json:"integrity,omitempty"`
	IntegrityScore    *int         `json:"integrityScore,omitempty"`
	Band              string       `json:"band"`
	Issues            []string     `json:"issues,omitempty"`
	Duration          string       `json:"duration,omitempty"`
	DurationSeconds   *int64       `json:"durationSeconds,omitempty"`
	CorrectiveActions int          `json:"correctiveActions"`
	Stats             *ReportStats `json:"stats,omitempty"`
}

// SafetyRow is one store's line of the monthly safety grid.
type SafetyRow struct {
	Month        string `json:"month"`
	AuditStatus  string `json:"auditStatus"`
	AuditScore   string `json:"auditScore,omitempty"`
	AuditPct     *int   `json:"auditPct,omitempty"`
	AgendaStatus string `json:"agendaStatus"`
	Complete     bool   `json:"complete"`
}

// DFSL report cell styles.
const (
	CellStyleNone    = ""
	CellStyleExpired = "expired"
	CellStyleToday   = "today"
	CellStyleWarning = "warning"
	CellStyleManual  = "manual"
	CellStyleNA      = "na"
	CellStyleBlocked = "blocked"
	CellStyleMissing = "missing"
)

// DFSLReport is the per-store daily food safety report, one column per
// daypart.
type DFSLReport struct {
	Date     string        `json:"date"`
	Sections []DFSLSection `json:"sections"`
}

// DFSLSection is a titled group of report rows.
type DFSLSection struct {
	Title string    `json:"title"`
	Rows  []DFSLRow `json:"rows"`
}

// DFSLRow is one report line with a cell per daypart in Dayparts order.
type DFSLRow struct {
	Label string     `json:"label"`
	Cells []DFSLCell `json:"cells"`
}

// DFSLCell is one rendered value of the DFSL report.
type DFSLCell struct {
	Value  string `json:"value,omitempty"`
	Source string `json:"source,omitempty"`
	Style  string `json:"style,omitempty"`
}

// StoreReport is everything the agent derives for one location in one
// collection cycle. It is the unit shipped to the server.
type StoreReport struct {
	LocationID   string        `json:"location_id"`
	LocationName string        `json:"location_name"`
	Market       string        `json:"market"`
	District     string        `json:"district"`
	Date         string        `json:"date"`
	GeneratedAt  time.Time     `json:"generated_at"`
	Dayparts     []DaypartCell `json:"dayparts"`
	Sanitizer    string        `json:"sanitizer"`
	Lists        []ListSummary `json:"lists,omitempty"`
	Safety       *SafetyRow    `json:"safety,omitempty"`
	DFSL         *DFSLReport   `json:"dfsl,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// Cell returns the daypart cell for id, or nil.
func (r *StoreReport) Cell(id string) *DaypartCell {
	for i := range r.Dayparts {
		if r.Dayparts[i].Daypart == id {
			return &r.Dayparts[i]
		}
	}
	return nil
}

// List returns the list summary with the given id, or nil.
func (r *StoreReport) List(id string) *ListSummary {
	for i := range r.Lists {
		if r.Lists[i].ID == id {
			return &r.Lists[i]
		}
	}
	return nil
}
