package api

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"
)

var (
	gridCSVHeader   = []string{"Store Name", "DP1 Status", "DP1 Integrity", "DP3 Status", "DP3 Integrity", "DP5 Status", "DP5 Integrity", "Sanitizer Issues"}
	safetyCSVHeader = []string{"Store Name", "Monthly Audit Status", "Audit Score", "Agenda Status", "Complete?"}
	listsCSVHeader  = []string{"Location", "Checklist Name", "Date", "Status", "Duration", "Integrity Score"}
)

// gridCSV returns GET /api/v1/grid.csv with the same filters as /grid.
func (h *Handler) gridCSV(w http.ResponseWriter, r *http.Request) {
	rows := [][]string{gridCSVHeader}
	for _, e := range h.visible(r, parseFilter(r)) {
		g := toGridRow(e)
		rows = append(rows, []string{
			g.Name,
			g.DP1.Status, scoreText(g.DP1.IntegrityScore),
			g.DP3.Status, scoreText(g.DP3.IntegrityScore),
			g.DP5.Status, scoreText(g.DP5.IntegrityScore),
			g.Sanitizer,
		})
	}
	csvResp(w, "jolt_store_grid_overview.csv", rows)
}

// safetyCSV returns GET /api/v1/safety.csv.
func (h *Handler) safetyCSV(w http.ResponseWriter, r *http.Request) {
	rows := [][]string{safetyCSVHeader}
	for _, s := range h.safetyRows(r) {
		complete := "No"
		if s.Complete {
			complete = "Yes"
		}
		rows = append(rows, []string{s.Name, s.AuditStatus, s.AuditScore, s.AgendaStatus, complete})
	}
	csvResp(w, "jolt_safety_grid.csv", rows)
}

// storeListsCSV returns GET /api/v1/stores/{id}/lists.csv: one line per
// list of the store's current day.
func (h *Handler) storeListsCSV(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	rows := [][]string{listsCSVHeader}
	for _, l := range e.Report.Lists {
		date := ""
		if l.DisplayTimestamp > 0 {
			date = time.Unix(l.DisplayTimestamp, 0).UTC().Format("2006-01-02 15:04")
		}
		integrity := "N/A"
		if l.Integrity != nil {
			integrity = strconv.Itoa(*l.Integrity)
		}
		rows = append(rows, []string{e.Report.LocationName, l.Title, date, l.Status, l.Duration, integrity})
	}
	csvResp(w, "jolt_export_"+e.Report.LocationID+".csv", rows)
}

func csvResp(w http.ResponseWriter, filename string, rows [][]string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	cw := csv.NewWriter(w)
	cw.WriteAll(rows) //nolint:errcheck
}

func scoreText(score *int) string {
	if score == nil {
		return ""
	}
	return strconv.Itoa(*score)
}

