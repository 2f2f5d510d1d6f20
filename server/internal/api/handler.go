package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/Ckuran148/Jolt/pkg/types"
	"github.com/Ckuran148/Jolt/server/internal/alerts"
	"github.com/Ckuran148/Jolt/server/internal/auth"
	"github.com/Ckuran148/Jolt/server/internal/history"
	"github.com/Ckuran148/Jolt/server/internal/store"
)

const dateLayout = "2006-01-02"

// AlertSource lists active and recently resolved alerts.
type AlertSource interface {
	Active() []*alerts.Alert
}

// HistorySource serves daypart history for one location.
type HistorySource interface {
	Range(ctx context.Context, locationID, from, to string) ([]history.Record, error)
}

// Handler is the HTTP handler for all /api/v1/* endpoints.
// It reads store reports from the report store and returns JSON responses
// filtered by the caller's profile (see auth.FromContext).
type Handler struct {
	store   *store.Store
	alerts  AlertSource
	history HistorySource
	mux     *http.ServeMux
	now     func() time.Time
}

// New creates a Handler wired to the given report store and registers all
// routes. al and hist may be nil; history endpoints then answer 503.
func New(st *store.Store, al AlertSource, hist HistorySource) http.Handler {
	h := &Handler{store: st, alerts: al, history: hist, mux: http.NewServeMux(), now: time.Now}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/grid", h.grid)
	h.mux.HandleFunc("/api/v1/grid.csv", h.gridCSV)
	h.mux.HandleFunc("/api/v1/safety", h.safety)
	h.mux.HandleFunc("/api/v1/safety.csv", h.safetyCSV)
	h.mux.HandleFunc("/api/v1/filters", h.filters)
	h.mux.HandleFunc("/api/v1/stores/{id}", h.getStore)
	h.mux.HandleFunc("/api/v1/stores/{id}/report", h.storeReport)
	h.mux.HandleFunc("/api/v1/stores/{id}/lists.csv", h.storeListsCSV)
	h.mux.HandleFunc("/api/v1/stores/{id}/lists/{listID}", h.storeList)
	h.mux.HandleFunc("/api/v1/history/{id}", h.storeHistory)
	h.mux.HandleFunc("/api/v1/alerts", h.listAlerts)
	h.mux.HandleFunc("/api/v1/snapshot", h.snapshot)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health: band counts, sanitizer counts and the
// stores that need attention.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	entries := h.visible(r, viewFilter{})
	resp := HealthResponse{
		StoreCount: len(entries),
		Sanitizer:  map[string]int{},
		Flagged:    []FlaggedStore{},
	}
	if h.alerts != nil {
		p := auth.FromContext(r.Context())
		for _, a := range h.alerts.Active() {
			if a.State == alerts.StateFiring && p.Allows(a.Report()) {
				resp.AlertCount++
			}
		}
	}

	if len(entries) == 0 {
		resp.State = "unknown"
		jsonResp(w, http.StatusOK, resp)
		return
	}

	for _, e := range entries {
		rep := e.Report
		switch storeBand(rep) {
		case types.BandHigh:
			resp.HighCount++
		case types.BandMedium:
			resp.MediumCount++
		case types.BandLow:
			resp.LowCount++
		default:
			resp.NACount++
		}
		if rep.Error != "" {
			resp.ErrorCount++
		}
		if rep.Sanitizer != "" {
			resp.Sanitizer[rep.Sanitizer]++
		}
		if reasons := flagReasons(rep); len(reasons) > 0 {
			resp.Flagged = append(resp.Flagged, FlaggedStore{LocationID: rep.LocationID, Name: rep.LocationName, Reasons: reasons})
		}
	}

	resp.State = "ok"
	if len(resp.Flagged) > 0 {
		resp.State = "attention"
	}
	jsonResp(w, http.StatusOK, resp)
}

// grid returns GET /api/v1/grid: one row per visible store.
func (h *Handler) grid(w http.ResponseWriter, r *http.Request) {
	entries := h.visible(r, parseFilter(r))
	out := make([]GridRow, 0, len(entries))
	for _, e := range entries {
		out = append(out, toGridRow(e))
	}
	jsonResp(w, http.StatusOK, out)
}

// safety returns GET /api/v1/safety: monthly audit and agenda status for
// every visible store that reported one.
func (h *Handler) safety(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, http.StatusOK, h.safetyRows(r))
}

func (h *Handler) safetyRows(r *http.Request) []SafetyGridRow {
	entries := h.visible(r, parseFilter(r))
	out := make([]SafetyGridRow, 0, len(entries))
	for _, e := range entries {
		rep := e.Report
		if rep.Safety == nil {
			continue
		}
		out = append(out, SafetyGridRow{
			LocationID: rep.LocationID,
			Name:       rep.LocationName,
			Market:     rep.Market,
			District:   rep.District,
			SafetyRow:  *rep.Safety,
		})
	}
	return out
}

// filters returns GET /api/v1/filters: the distinct markets and districts
// of the visible stores.
func (h *Handler) filters(w http.ResponseWriter, r *http.Request) {
	markets := map[string]struct{}{}
	districts := map[string]struct{}{}
	for _, e := range h.visible(r, viewFilter{}) {
		if m := strings.TrimSpace(e.Report.Market); m != "" {
			markets[m] = struct{}{}
		}
		if d := strings.TrimSpace(e.Report.District); d != "" {
			districts[d] = struct{}{}
		}
	}
	jsonResp(w, http.StatusOK, FiltersResponse{Markets: sortedKeys(markets), Districts: sortedKeys(districts)})
}

// getStore returns GET /api/v1/stores/{id}: the full store report.
func (h *Handler) getStore(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	jsonResp(w, http.StatusOK, e.Report)
}

// storeReport returns GET /api/v1/stores/{id}/report: the daily food
// safety report.
func (h *Handler) storeReport(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if e.Report.DFSL == nil {
		jsonErr(w, http.StatusNotFound, "report not available")
		return
	}
	jsonResp(w, http.StatusOK, e.Report.DFSL)
}

// storeList returns GET /api/v1/stores/{id}/lists/{listID}: one list with
// its diagnostics.
func (h *Handler) storeList(w http.ResponseWriter, r *http.Request) {
	e, ok := h.lookup(w, r)
	if !ok {
		return
	}
	l := e.Report.List(r.PathValue("listID"))
	if l == nil {
		jsonErr(w, http.StatusNotFound, "list not found")
		return
	}
	jsonResp(w, http.StatusOK, ListDetailResponse{
		LocationID:   e.Report.LocationID,
		LocationName: e.Report.LocationName,
		List:         *l,
		Diagnostics:  computeDiagnostics(*l),
	})
}

// storeHistory returns GET /api/v1/history/{id}?from=&to=.
func (h *Handler) storeHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		jsonErr(w, http.StatusServiceUnavailable, "history is disabled")
		return
	}
	id := r.PathValue("id")
	p := auth.FromContext(r.Context())
	if !p.IsAdmin() {
		// Scoped profiles can only see history of stores they can see live.
		if _, ok := h.lookup(w, r); !ok {
			return
		}
	}

	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			jsonErr(w, http.StatusBadRequest, "dates must be YYYY-MM-DD")
			return
		}
	}

	recs, err := h.history.Range(r.Context(), id, from, to)
	if err != nil {
		jsonErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	jsonResp(w, http.StatusOK, recs)
}

// listAlerts returns GET /api/v1/alerts: firing and recently resolved
// alerts for visible stores.
func (h *Handler) listAlerts(w http.ResponseWriter, r *http.Request) {
	out := make([]*alerts.Alert, 0)
	if h.alerts != nil {
		p := auth.FromContext(r.Context())
		for _, a := range h.alerts.Active() {
			if p.Allows(a.Report()) {
				out = append(out, a)
			}
		}
	}
	jsonResp(w, http.StatusOK, out)
}

// snapshot returns GET /api/v1/snapshot: every visible store report.
func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, http.StatusOK, BuildSnapshot(h.store, auth.FromContext(r.Context())))
}

// BuildSnapshot collects the live reports visible to p, sorted by name.
// The WebSocket hub uses it for every broadcast.
func BuildSnapshot(st *store.Store, p auth.Profile) SnapshotResponse {
	entries := filterEntries(st.List(), p, viewFilter{})
	reports := make([]*types.StoreReport, 0, len(entries))
	for _, e := range entries {
		reports = append(reports, e.Report)
	}
	return SnapshotResponse{
		Stores:      reports,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// --- helpers ----------------------------------------------------------------

// visible returns the live entries the caller may see that pass f.
func (h *Handler) visible(r *http.Request, f viewFilter) []*store.Entry {
	return filterEntries(h.store.List(), auth.FromContext(r.Context()), f)
}

// lookup resolves {id} to a live entry visible to the caller, writing a 404
// otherwise. Stores outside the caller's scope are reported as not found.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*store.Entry, bool) {
	e, ok := h.store.Get(r.PathValue("id"))
	if !ok || h.now().Sub(e.UpdatedAt) > h.store.TTL() || !auth.FromContext(r.Context()).Allows(e.Report) {
		jsonErr(w, http.StatusNotFound, "store not found")
		return nil, false
	}
	return e, true
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}

var bandRank = map[string]int{types.BandHigh: 1, types.BandMedium: 2, types.BandLow: 3}

// storeBand is the worst integrity band across the store's dayparts.
func storeBand(r *types.StoreReport) string {
	worst := types.BandNA
	for _, c := range r.Dayparts {
		if bandRank[c.Band] > bandRank[worst] {
			worst = c.Band
		}
	}
	return worst
}

func flagReasons(r *types.StoreReport) []string {
	var reasons []string
	if r.Error != "" {
		reasons = append(reasons, "collection error")
	}
	if storeBand(r) == types.BandLow {
		reasons = append(reasons, "low integrity")
	}
	if r.Sanitizer == types.SanitizerExpired {
		reasons = append(reasons, "sanitizer expired")
	}
	for _, c := range r.Dayparts {
		if c.Status == types.StatusLate {
			reasons = append(reasons, "late daypart")
			break
		}
	}
	return reasons
}

// toGridRow maps a store.Entry to its grid row.
func toGridRow(e *store.Entry) GridRow {
	rep := e.Report
	return GridRow{
		LocationID: rep.LocationID,
		Name:       rep.LocationName,
		Market:     rep.Market,
		District:   rep.District,
		DP1:        cellOrMissing(rep, types.Daypart1),
		DP3:        cellOrMissing(rep, types.Daypart3),
		DP5:        cellOrMissing(rep, types.Daypart5),
		Sanitizer:  rep.Sanitizer,
		Error:      rep.Error,
		LastSeen:   e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func cellOrMissing(r *types.StoreReport, dp string) types.DaypartCell {
	if c := r.Cell(dp); c != nil {
		return *c
	}
	return types.DaypartCell{Daypart: dp, Status: types.StatusMissing, Band: types.BandNA}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
