package alerts

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Ckuran148/Jolt/pkg/types"
	"github.com/Ckuran148/Jolt/server/internal/config"
)

// testEngine returns an Engine with a controllable clock, sequential ids
// and a delivery recorder.
func testEngine(rules ...config.AlertRule) (*Engine, *time.Time, *recorder) {
	e := New(config.AlertsConfig{Rules: rules})
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return now }
	n := 0
	e.newID = func() string { n++; return fmt.Sprintf("alert-%d", n) }
	rec := &recorder{}
	e.deliver = rec.record
	return e, &now, rec
}

type recorder struct {
	mu     sync.Mutex
	alerts []Alert
}

func (r *recorder) record(a *Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, *a)
}

func (r *recorder) waitFor(t *testing.T, n int) []Alert {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		r.mu.Lock()
		if len(r.alerts) >= n {
			out := append([]Alert(nil), r.alerts...)
			r.mu.Unlock()
			return out
		}
		r.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d deliveries", n)
	return nil
}

var lowIntegrity = config.AlertRule{Name: "low-integrity", Condition: "integrity_min < 60", Severity: "critical"}

func TestEngine_FireAndResolve(t *testing.T) {
	e, now, rec := testEngine(lowIntegrity)

	r := testReport()
	e.Evaluate(r)

	active := e.Active()
	if len(active) != 1 {
		t.Fatalf("active: got %d, want 1", len(active))
	}
	a := active[0]
	if a.ID != "alert-1" || a.State != StateFiring || a.Value != 55 || a.LocationName != "Main St #101" {
		t.Errorf("alert: got %+v", a)
	}
	if want := "[critical] low-integrity fired on Main St #101: integrity_min < 60 (value 55)"; a.Message != want {
		t.Errorf("message: got %q, want %q", a.Message, want)
	}
	if e.Firing() != 1 {
		t.Errorf("Firing: got %d, want 1", e.Firing())
	}

	*now = now.Add(10 * time.Minute)
	r.Dayparts[1].IntegrityScore = intPtr(90)
	e.Evaluate(r)

	if e.Firing() != 0 {
		t.Errorf("Firing after resolve: got %d, want 0", e.Firing())
	}
	active = e.Active()
	if len(active) != 1 || active[0].State != StateResolved || active[0].ResolvedAt == nil {
		t.Fatalf("expected one recently resolved alert, got %+v", active)
	}

	got := rec.waitFor(t, 2)
	states := map[string]bool{}
	for _, a := range got {
		states[a.State] = true
	}
	if !states[StateFiring] || !states[StateResolved] {
		t.Errorf("deliveries: got %+v", got)
	}

	*now = now.Add(2 * time.Hour)
	if len(e.Active()) != 0 {
		t.Error("resolved alert should age out of Active after an hour")
	}
}

func TestEngine_Cooldown(t *testing.T) {
	rule := lowIntegrity
	rule.Cooldown = 30 * time.Minute
	e, now, _ := testEngine(rule)

	r := testReport()
	e.Evaluate(r)
	e.Evaluate(r)
	if got := e.Active(); len(got) != 1 || got[0].ID != "alert-1" {
		t.Fatalf("expected one alert inside cooldown, got %+v", got)
	}

	*now = now.Add(31 * time.Minute)
	e.Evaluate(r)
	if got := e.Active(); len(got) != 1 || got[0].ID != "alert-2" {
		t.Errorf("expected a re-fire after cooldown, got %+v", got)
	}
}

func TestEngine_PerLocationKeys(t *testing.T) {
	e, _, _ := testEngine(config.AlertRule{Name: "missing", Condition: "missing_dayparts >= 1"})

	a := testReport()
	b := testReport()
	b.LocationID, b.LocationName = "loc-2", "Oak Ave #202"
	e.Evaluate(a)
	e.Evaluate(b)

	if e.Firing() != 2 {
		t.Errorf("Firing: got %d, want 2", e.Firing())
	}
	for _, al := range e.Active() {
		if al.Severity != "warning" {
			t.Errorf("default severity: got %q", al.Severity)
		}
	}
}

func TestEngine_IgnoresErroredReports(t *testing.T) {
	e, _, _ := testEngine(config.AlertRule{Name: "missing", Condition: "missing_dayparts >= 1"})
	r := testReport()
	r.Error = "fetch failed"
	e.Evaluate(r)
	if e.Firing() != 0 {
		t.Error("errored report must not fire alerts")
	}
}

func TestEngine_NoRules(t *testing.T) {
	e, _, _ := testEngine()
	e.Evaluate(testReport())
	if len(e.Active()) != 0 {
		t.Error("engine without rules must not produce alerts")
	}
}

func TestSend_WebhookPayloads(t *testing.T) {
	type hit struct {
		path string
		body map[string]any
	}
	var mu sync.Mutex
	var hits []hit
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		hits = append(hits, hit{r.URL.Path, body})
		mu.Unlock()
	}))
	defer srv.Close()

	t.Setenv("SLACK_URL", srv.URL+"/slack")
	t.Setenv("TEAMS_URL", srv.URL+"/teams")
	t.Setenv("HTTP_URL", srv.URL+"/http")

	e := New(config.AlertsConfig{Webhooks: []config.WebhookConfig{
		{Type: "slack", URLEnv: "SLACK_URL"},
		{Type: "teams", URLEnv: "TEAMS_URL"},
		{Type: "http", URLEnv: "HTTP_URL"},
		{Type: "http", URLEnv: "UNSET_WEBHOOK_ENV"},
	}})
	e.send(&Alert{ID: "a1", RuleName: "low-integrity", Severity: "critical", Message: "msg", State: StateFiring})

	if len(hits) != 3 {
		t.Fatalf("deliveries: got %d, want 3", len(hits))
	}
	for _, h := range hits {
		switch h.path {
		case "/slack":
			if text, _ := h.body["text"].(string); !strings.HasPrefix(text, "*[CRITICAL]*") {
				t.Errorf("slack text: got %q", text)
			}
		case "/teams":
			if h.body["title"] != "Jolt Alert: low-integrity" || h.body["themeColor"] != "FF4F6A" {
				t.Errorf("teams card: got %+v", h.body)
			}
		case "/http":
			alert, _ := h.body["alert"].(map[string]any)
			if alert["id"] != "a1" {
				t.Errorf("http payload: got %+v", h.body)
			}
		default:
			t.Errorf("unexpected path %q", h.path)
		}
	}
}

func TestEngine_CapturesStoreState(t *testing.T) {
	e, now, _ := testEngine(lowIntegrity)

	r := testReport()
	r.Date = "2026-03-10"
	e.Evaluate(r)

	a := e.Active()[0]
	if a.Date != "2026-03-10" || a.Sanitizer != types.SanitizerExpiring {
		t.Errorf("store state: got date %q sanitizer %q", a.Date, a.Sanitizer)
	}
	if len(a.Dayparts) != 3 {
		t.Fatalf("dayparts: got %d, want 3", len(a.Dayparts))
	}
	dp3 := a.Dayparts[1]
	if dp3.Daypart != types.Daypart3 || dp3.Status != types.StatusLate || *dp3.Integrity != 55 || dp3.CorrectiveActions != 1 {
		t.Errorf("dp3: got %+v", dp3)
	}

	// Resolution carries the state that cleared the rule.
	*now = now.Add(5 * time.Minute)
	r.Dayparts[1].IntegrityScore = intPtr(92)
	e.Evaluate(r)
	a = e.Active()[0]
	if a.State != StateResolved || *a.Dayparts[1].Integrity != 92 {
		t.Errorf("resolved alert: got %+v", a.Dayparts[1])
	}
}

func TestWebhookPayloads_StoreDetail(t *testing.T) {
	a := &Alert{
		RuleName:     "low-integrity",
		LocationID:   "loc-1",
		LocationName: "Main St #101",
		Market:       "Gulf",
		District:     "D1",
		Severity:     "critical",
		Message:      "msg",
		State:        StateFiring,
		Date:         "2026-03-10",
		Sanitizer:    types.SanitizerExpired,
		Dayparts: []DaypartState{
			{Daypart: types.Daypart1, Status: types.StatusComplete, Integrity: intPtr(88)},
			{Daypart: types.Daypart3, Status: types.StatusLate, Integrity: intPtr(55), CorrectiveActions: 1},
			{Daypart: types.Daypart5, Status: types.StatusMissing},
		},
	}

	var slack map[string]string
	if err := json.Unmarshal(slackPayload(a), &slack); err != nil {
		t.Fatal(err)
	}
	want := "*[CRITICAL]* msg\n" +
		"Main St #101 (Gulf / D1) on 2026-03-10\n" +
		"> dp1 Complete, integrity 88%\n" +
		"> dp3 Late, integrity 55%, 1 CA\n" +
		"> dp5 Missing"
	if slack["text"] != want {
		t.Errorf("slack text:\ngot  %q\nwant %q", slack["text"], want)
	}

	var card struct {
		Sections []struct {
			ActivityTitle string `json:"activityTitle"`
			Facts         []struct {
				Name  string `json:"name"`
				Value string `json:"value"`
			} `json:"facts"`
		} `json:"sections"`
	}
	if err := json.Unmarshal(teamsPayload(a), &card); err != nil {
		t.Fatal(err)
	}
	if len(card.Sections) != 1 || card.Sections[0].ActivityTitle != "Main St #101" {
		t.Fatalf("teams sections: got %+v", card.Sections)
	}
	facts := card.Sections[0].Facts
	if len(facts) != 4 || facts[1].Name != "DP3" || facts[3].Value != types.SanitizerExpired {
		t.Errorf("teams facts: got %+v", facts)
	}

	a.State = StateResolved
	if err := json.Unmarshal(slackPayload(a), &slack); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(slack["text"], "*[CRITICAL]* msg _(resolved)_\n") {
		t.Errorf("resolved slack text: got %q", slack["text"])
	}
}
