package api_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Ckuran148/Jolt/pkg/types"
	"github.com/Ckuran148/Jolt/server/internal/alerts"
	"github.com/Ckuran148/Jolt/server/internal/api"
	"github.com/Ckuran148/Jolt/server/internal/auth"
	"github.com/Ckuran148/Jolt/server/internal/history"
	"github.com/Ckuran148/Jolt/server/internal/store"
)

// --- test helpers -----------------------------------------------------------

func newStore(reports ...*types.StoreReport) *store.Store {
	st := store.New(5 * time.Minute)
	for _, r := range reports {
		st.Put(r)
	}
	return st
}

func intPtr(v int) *int { return &v }

func cell(dp, status string, score *int, band string) types.DaypartCell {
	return types.DaypartCell{Daypart: dp, Status: status, IntegrityScore: score, Band: band}
}

func report(id, name, market, district string) *types.StoreReport {
	return &types.StoreReport{
		LocationID:   id,
		LocationName: name,
		Market:       market,
		District:     district,
		Date:         "2026-03-10",
		Sanitizer:    types.SanitizerOK,
		Dayparts: []types.DaypartCell{
			cell(types.Daypart1, types.StatusComplete, intPtr(95), types.BandHigh),
			cell(types.Daypart3, types.StatusInProgress, nil, types.BandNA),
			cell(types.Daypart5, types.StatusMissing, nil, types.BandNA),
		},
	}
}

// fixture returns three stores across two markets; "b" is flagged.
func fixture() *store.Store {
	a := report("a", "Main St #101", "North", "D1")
	b := report("b", "Oak Ave #202", "South", "D2")
	b.Sanitizer = types.SanitizerExpired
	b.Dayparts[0] = cell(types.Daypart1, types.StatusLate, intPtr(40), types.BandLow)
	b.Lists = []types.ListSummary{{
		ID: "L1", Title: "DFSL Daypart 1", Status: types.StatusComplete, Integrity: intPtr(40), Band: types.BandLow,
		Issues: []string{"Speed Detection (Too Fast)", "Identical Temperatures"}, CorrectiveActions: 2,
		DisplayTimestamp: 1773140400, Duration: "3m 10s",
	}}
	b.DFSL = &types.DFSLReport{Date: "2026-03-10"}
	b.Safety = &types.SafetyRow{Month: "2026-03", AuditStatus: types.StatusComplete, AuditScore: "45/50", AgendaStatus: types.StatusComplete, Complete: true}
	c := report("c", "Elm Rd #303", "North", "D3")
	return newStore(a, b, c)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	return getAs(t, h, path, auth.Anonymous)
}

func getAs(t *testing.T, h http.Handler, path string, p auth.Profile) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	h.ServeHTTP(rr, req.WithContext(auth.WithProfile(req.Context(), p)))
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON: %v (body: %s)", err, rr.Body.String())
	}
}

func names(rows []api.GridRow) string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.LocationID
	}
	return strings.Join(out, ",")
}

type fakeAlerts []*alerts.Alert

func (f fakeAlerts) Active() []*alerts.Alert { return f }

type fakeHistory struct {
	gotID, gotFrom, gotTo string
	err                   error
}

func (f *fakeHistory) Range(_ context.Context, id, from, to string) ([]history.Record, error) {
	f.gotID, f.gotFrom, f.gotTo = id, from, to
	if f.err != nil {
		return nil, f.err
	}
	return []history.Record{{LocationID: id, Date: "2026-03-09", Daypart: types.Daypart1, Status: types.StatusComplete}}, nil
}

// --- /api/v1/health ---------------------------------------------------------

func TestHealth_EmptyStore(t *testing.T) {
	h := api.New(newStore(), nil, nil)
	rr := get(t, h, "/api/v1/health")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp api.HealthResponse
	decode(t, rr, &resp)
	if resp.State != "unknown" || resp.StoreCount != 0 {
		t.Errorf("got %+v, want unknown/0", resp)
	}
}

func TestHealth_CountsAndFlags(t *testing.T) {
	al := fakeAlerts{
		{ID: "1", LocationID: "b", LocationName: "Oak Ave #202", Market: "South", State: alerts.StateFiring},
		{ID: "2", LocationID: "a", LocationName: "Main St #101", Market: "North", State: alerts.StateResolved},
	}
	h := api.New(fixture(), al, nil)
	var resp api.HealthResponse
	decode(t, get(t, h, "/api/v1/health"), &resp)

	if resp.State != "attention" || resp.StoreCount != 3 {
		t.Errorf("state/count: got %s/%d", resp.State, resp.StoreCount)
	}
	if resp.HighCount != 2 || resp.LowCount != 1 {
		t.Errorf("bands: got high=%d low=%d", resp.HighCount, resp.LowCount)
	}
	if resp.Sanitizer[types.SanitizerOK] != 2 || resp.Sanitizer[types.SanitizerExpired] != 1 {
		t.Errorf("sanitizer: got %v", resp.Sanitizer)
	}
	if len(resp.Flagged) != 1 || resp.Flagged[0].LocationID != "b" {
		t.Fatalf("flagged: got %+v", resp.Flagged)
	}
	want := []string{"low integrity", "sanitizer expired", "late daypart"}
	if strings.Join(resp.Flagged[0].Reasons, "|") != strings.Join(want, "|") {
		t.Errorf("reasons: got %v, want %v", resp.Flagged[0].Reasons, want)
	}
	if resp.AlertCount != 1 {
		t.Errorf("alert_count: got %d, want 1", resp.AlertCount)
	}
}

// --- /api/v1/grid -----------------------------------------------------------

func TestGrid_SortAndFilters(t *testing.T) {
	h := api.New(fixture(), nil, nil)

	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/grid", "c,a,b"},
		{"/api/v1/grid?grouped=true", "a,c,b"},
		{"/api/v1/grid?market=North", "c,a"},
		{"/api/v1/grid?market=All", "c,a,b"},
		{"/api/v1/grid?market=north", ""},
		{"/api/v1/grid?district=D2", "b"},
		{"/api/v1/grid?location=oak", "b"},
		{"/api/v1/grid?location=c", "c"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			var rows []api.GridRow
			decode(t, get(t, h, tc.path), &rows)
			if got := names(rows); got != tc.want {
				t.Errorf("rows: got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGrid_RowShape(t *testing.T) {
	st := newStore(&types.StoreReport{LocationID: "x", LocationName: "Bare", Error: "timeout"})
	var rows []api.GridRow
	decode(t, get(t, api.New(st, nil, nil), "/api/v1/grid"), &rows)
	if len(rows) != 1 {
		t.Fatalf("rows: got %d", len(rows))
	}
	r := rows[0]
	if r.DP1.Status != types.StatusMissing || r.DP5.Daypart != types.Daypart5 || r.Error != "timeout" || r.LastSeen == "" {
		t.Errorf("row: got %+v", r)
	}
}

func TestGrid_ScopedProfile(t *testing.T) {
	h := api.New(fixture(), nil, nil)
	tests := []struct {
		profile auth.Profile
		want    string
	}{
		{auth.Profile{Role: auth.RoleMarket, Scope: "north"}, "c,a"},
		{auth.Profile{Role: auth.RoleDistrict, Scope: "d2, d3"}, "c,b"},
		{auth.Profile{Role: auth.RoleStore, Scope: "#101"}, "a"},
		{auth.Profile{Role: auth.RoleStore, Scope: ""}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.profile.Role+":"+tc.profile.Scope, func(t *testing.T) {
			var rows []api.GridRow
			decode(t, getAs(t, h, "/api/v1/grid", tc.profile), &rows)
			if got := names(rows); got != tc.want {
				t.Errorf("rows: got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGridCSV(t *testing.T) {
	rr := get(t, api.New(fixture(), nil, nil), "/api/v1/grid.csv?market=South")
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type: got %q", ct)
	}
	recs, err := csv.NewReader(rr.Body).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("records: got %d, want header + 1", len(recs))
	}
	if recs[0][0] != "Store Name" || recs[0][7] != "Sanitizer Issues" {
		t.Errorf("header: got %v", recs[0])
	}
	want := []string{"Oak Ave #202", "Late", "40", "In Progress", "", "Missing", "", "EXPIRED"}
	if strings.Join(recs[1], "|") != strings.Join(want, "|") {
		t.Errorf("row: got %v, want %v", recs[1], want)
	}
}

// --- /api/v1/safety, /filters -----------------------------------------------

func TestSafety(t *testing.T) {
	h := api.New(fixture(), nil, nil)

	var rows []api.SafetyGridRow
	decode(t, get(t, h, "/api/v1/safety"), &rows)
	if len(rows) != 1 || rows[0].LocationID != "b" || rows[0].AuditScore != "45/50" || !rows[0].Complete {
		t.Errorf("rows: got %+v", rows)
	}

	recs, err := csv.NewReader(get(t, h, "/api/v1/safety.csv").Body).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(recs) != 2 || recs[1][4] != "Yes" || recs[0][4] != "Complete?" {
		t.Errorf("csv: got %v", recs)
	}
}

func TestFilters(t *testing.T) {
	h := api.New(fixture(), nil, nil)

	var resp api.FiltersResponse
	decode(t, get(t, h, "/api/v1/filters"), &resp)
	if strings.Join(resp.Markets, ",") != "North,South" || strings.Join(resp.Districts, ",") != "D1,D2,D3" {
		t.Errorf("filters: got %+v", resp)
	}

	decode(t, getAs(t, h, "/api/v1/filters", auth.Profile{Role: auth.RoleMarket, Scope: "south"}), &resp)
	if strings.Join(resp.Markets, ",") != "South" {
		t.Errorf("scoped markets: got %v", resp.Markets)
	}
}

// --- /api/v1/stores/... -----------------------------------------------------

func TestGetStore(t *testing.T) {
	h := api.New(fixture(), nil, nil)

	rr := get(t, h, "/api/v1/stores/a")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	var rep types.StoreReport
	decode(t, rr, &rep)
	if rep.LocationName != "Main St #101" {
		t.Errorf("report: got %+v", rep)
	}

	if rr := get(t, h, "/api/v1/stores/zzz"); rr.Code != http.StatusNotFound {
		t.Errorf("unknown id: got %d, want 404", rr.Code)
	}
	south := auth.Profile{Role: auth.RoleMarket, Scope: "south"}
	if rr := getAs(t, h, "/api/v1/stores/a", south); rr.Code != http.StatusNotFound {
		t.Errorf("out-of-scope id: got %d, want 404", rr.Code)
	}
}

func TestStoreReportAndList(t *testing.T) {
	h := api.New(fixture(), nil, nil)

	if rr := get(t, h, "/api/v1/stores/b/report"); rr.Code != http.StatusOK {
		t.Errorf("report: got %d", rr.Code)
	}
	if rr := get(t, h, "/api/v1/stores/a/report"); rr.Code != http.StatusNotFound {
		t.Errorf("missing report: got %d, want 404", rr.Code)
	}

	rr := get(t, h, "/api/v1/stores/b/lists/L1")
	if rr.Code != http.StatusOK {
		t.Fatalf("list: got %d", rr.Code)
	}
	var detail api.ListDetailResponse
	decode(t, rr, &detail)
	if detail.List.ID != "L1" || len(detail.Diagnostics) == 0 {
		t.Fatalf("detail: got %+v", detail)
	}
	if first := detail.Diagnostics[0]; first.Level != "critical" {
		t.Errorf("first hint should be critical, got %+v", first)
	}
	keys := map[string]bool{}
	for _, d := range detail.Diagnostics {
		keys[d.Key] = true
	}
	for _, k := range []string{"speed_too_fast", "identical_temps", "integrity_score", "corrective_actions"} {
		if !keys[k] {
			t.Errorf("missing hint %q in %+v", k, detail.Diagnostics)
		}
	}

	if rr := get(t, h, "/api/v1/stores/b/lists/nope"); rr.Code != http.StatusNotFound {
		t.Errorf("unknown list: got %d, want 404", rr.Code)
	}
}

func TestStoreListsCSV(t *testing.T) {
	rr := get(t, api.New(fixture(), nil, nil), "/api/v1/stores/b/lists.csv")
	recs, err := csv.NewReader(rr.Body).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("records: got %d", len(recs))
	}
	want := []string{"Oak Ave #202", "DFSL Daypart 1", "2026-03-10 11:00", "Complete", "3m 10s", "40"}
	if strings.Join(recs[1], "|") != strings.Join(want, "|") {
		t.Errorf("row: got %v, want %v", recs[1], want)
	}
}

// --- /api/v1/history --------------------------------------------------------

func TestHistory(t *testing.T) {
	if rr := get(t, api.New(fixture(), nil, nil), "/api/v1/history/a"); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("disabled: got %d, want 503", rr.Code)
	}

	hist := &fakeHistory{}
	h := api.New(fixture(), nil, hist)

	rr := get(t, h, "/api/v1/history/a?from=2026-03-01&to=2026-03-10")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	var recs []history.Record
	decode(t, rr, &recs)
	if len(recs) != 1 || hist.gotID != "a" || hist.gotFrom != "2026-03-01" || hist.gotTo != "2026-03-10" {
		t.Errorf("range: got %+v (%s %s..%s)", recs, hist.gotID, hist.gotFrom, hist.gotTo)
	}

	if rr := get(t, h, "/api/v1/history/a?from=03/01/2026"); rr.Code != http.StatusBadRequest {
		t.Errorf("bad date: got %d, want 400", rr.Code)
	}
	// Admins may read history of stores no longer reporting.
	if rr := get(t, h, "/api/v1/history/gone"); rr.Code != http.StatusOK {
		t.Errorf("admin, offline store: got %d, want 200", rr.Code)
	}
	south := auth.Profile{Role: auth.RoleMarket, Scope: "south"}
	if rr := getAs(t, h, "/api/v1/history/a", south); rr.Code != http.StatusNotFound {
		t.Errorf("out-of-scope: got %d, want 404", rr.Code)
	}

	hist.err = errors.New("database is locked")
	if rr := get(t, h, "/api/v1/history/a"); rr.Code != http.StatusInternalServerError {
		t.Errorf("backend error: got %d, want 500", rr.Code)
	}
}

// --- /api/v1/alerts, /snapshot ----------------------------------------------

func TestAlerts(t *testing.T) {
	if rr := get(t, api.New(fixture(), nil, nil), "/api/v1/alerts"); strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("no engine: got %s, want []", rr.Body.String())
	}

	al := fakeAlerts{
		{ID: "1", LocationID: "a", LocationName: "Main St #101", Market: "North"},
		{ID: "2", LocationID: "b", LocationName: "Oak Ave #202", Market: "South"},
	}
	h := api.New(fixture(), al, nil)

	var all []alerts.Alert
	decode(t, get(t, h, "/api/v1/alerts"), &all)
	if len(all) != 2 {
		t.Errorf("admin: got %d, want 2", len(all))
	}

	var scoped []alerts.Alert
	decode(t, getAs(t, h, "/api/v1/alerts", auth.Profile{Role: auth.RoleMarket, Scope: "north"}), &scoped)
	if len(scoped) != 1 || scoped[0].ID != "1" {
		t.Errorf("scoped: got %+v", scoped)
	}
}

func TestSnapshot(t *testing.T) {
	var resp api.SnapshotResponse
	decode(t, get(t, api.New(fixture(), nil, nil), "/api/v1/snapshot"), &resp)
	if len(resp.Stores) != 3 || resp.GeneratedAt == "" {
		t.Errorf("snapshot: got %d stores, generated_at %q", len(resp.Stores), resp.GeneratedAt)
	}
	if _, err := time.Parse(time.RFC3339, resp.GeneratedAt); err != nil {
		t.Errorf("generated_at not RFC3339: %v", err)
	}
}

// --- method handling --------------------------------------------------------

func TestNonGET_MethodNotAllowed(t *testing.T) {
	h := api.New(fixture(), nil, nil)
	for _, path := range []string{"/api/v1/health", "/api/v1/grid", "/api/v1/stores/a", "/api/v1/snapshot"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, path, nil))
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST %s: got %d, want 405", path, rr.Code)
		}
	}
}

func TestContentTypeJSON(t *testing.T) {
	rr := get(t, api.New(fixture(), nil, nil), "/api/v1/grid")
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}
}
