package alerts

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Ckuran148/Jolt/pkg/types"
	"github.com/Ckuran148/Jolt/server/internal/config"
)

const (
	defaultCooldown   = 15 * time.Minute
	maxHistoryLen     = 200
	recentWindowHours = 1
)

// Alert states.
const (
	StateFiring   = "firing"
	StateResolved = "resolved"
)

// Alert represents a single alert event produced by the rule engine.
type Alert struct {
	ID           string     `json:"id"`
	RuleName     string     `json:"rule_name"`
	LocationID   string     `json:"location_id"`
	LocationName string     `json:"location_name"`
	Market       string     `json:"market"`
	District     string     `json:"district"`
	Severity     string     `json:"severity"`
	Message      string     `json:"message"`
	Value        float64    `json:"value"`
	FiredAt      time.Time  `json:"fired_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	State        string     `json:"state"`

	// Store state when the alert last changed state.
	Date      string         `json:"date,omitempty"`
	Sanitizer string         `json:"sanitizer,omitempty"`
	Dayparts  []DaypartState `json:"dayparts,omitempty"`
}

// DaypartState is one grid cell as carried by an alert.
type DaypartState struct {
	Daypart           string `json:"daypart"`
	Status            string `json:"status"`
	Integrity         *int   `json:"integrity,omitempty"`
	CorrectiveActions int    `json:"corrective_actions"`
}

// capture copies the report's date, sanitizer and daypart cells into a.
func (a *Alert) capture(r *types.StoreReport) {
	a.Date = r.Date
	a.Sanitizer = r.Sanitizer
	a.Dayparts = make([]DaypartState, 0, len(r.Dayparts))
	for _, c := range r.Dayparts {
		dp := DaypartState{
			Daypart:           c.Daypart,
			Status:            c.Status,
			CorrectiveActions: c.CorrectiveActions,
		}
		if c.IntegrityScore != nil {
			v := *c.IntegrityScore
			dp.Integrity = &v
		}
		a.Dayparts = append(a.Dayparts, dp)
	}
}

// Report returns the location fields of a as a store report so callers can
// apply the same visibility rules they use for reports.
func (a *Alert) Report() *types.StoreReport {
	return &types.StoreReport{
		LocationID:   a.LocationID,
		LocationName: a.LocationName,
		Market:       a.Market,
		District:     a.District,
	}
}

// Engine evaluates alert rules against incoming store reports and delivers
// webhook notifications when rules fire or resolve.
//
// Engine is safe for concurrent use.
type Engine struct {
	rules    []config.AlertRule
	webhooks []config.WebhookConfig

	mu       sync.Mutex
	active   map[string]*Alert    // key: "ruleName:locationID"
	lastFire map[string]time.Time // last fire time per key (for cooldown)
	history  []*Alert             // recently resolved alerts
	client   *http.Client

	now     func() time.Time
	newID   func() string
	deliver func(*Alert)
}

// New creates an Engine from the server alert configuration.
// An Engine with empty rules is valid; Evaluate becomes a no-op.
func New(cfg config.AlertsConfig) *Engine {
	e := &Engine{
		rules:    cfg.Rules,
		webhooks: cfg.Webhooks,
		active:   make(map[string]*Alert),
		lastFire: make(map[string]time.Time),
		client:   &http.Client{Timeout: 10 * time.Second},
		now:      time.Now,
		newID:    uuid.NewString,
	}
	e.deliver = e.send
	return e
}

// Evaluate tests all configured rules against r.
// Alerts that fire are stored and webhook delivery is triggered asynchronously.
// Alerts that were firing but whose condition is now false are resolved.
// Reports carrying a collection error are ignored.
func (e *Engine) Evaluate(r *types.StoreReport) {
	if len(e.rules) == 0 || r.Error != "" {
		return
	}

	now := e.now()
	for _, rule := range e.rules {
		key := rule.Name + ":" + r.LocationID
		fires, value := evalCondition(rule.Condition, r)

		e.mu.Lock()

		if fires {
			cooldown := rule.Cooldown
			if cooldown <= 0 {
				cooldown = defaultCooldown
			}
			if now.Sub(e.lastFire[key]) > cooldown {
				sev := rule.Severity
				if sev == "" {
					sev = "warning"
				}
				a := &Alert{
					ID:           e.newID(),
					RuleName:     rule.Name,
					LocationID:   r.LocationID,
					LocationName: r.LocationName,
					Market:       r.Market,
					District:     r.District,
					Severity:     sev,
					Value:        value,
					Message: fmt.Sprintf("[%s] %s fired on %s: %s (value %s)",
						sev, rule.Name, displayName(r), rule.Condition, formatValue(value)),
					FiredAt: now,
					State:   StateFiring,
				}
				a.capture(r)
				e.active[key] = a
				e.lastFire[key] = now
				alertCopy := *a
				e.mu.Unlock()

				slog.Warn("alert fired",
					"rule", rule.Name,
					"location", r.LocationID,
					"value", value,
					"severity", sev,
				)
				go e.deliver(&alertCopy)
			} else {
				e.mu.Unlock()
			}
		} else {
			if a, ok := e.active[key]; ok && a.State == StateFiring {
				resolved := now
				a.State = StateResolved
				a.ResolvedAt = &resolved
				a.capture(r)
				delete(e.active, key)

				e.history = append(e.history, a)
				if len(e.history) > maxHistoryLen {
					e.history = e.history[len(e.history)-maxHistoryLen:]
				}
				alertCopy := *a
				e.mu.Unlock()

				slog.Info("alert resolved",
					"rule", rule.Name,
					"location", r.LocationID,
				)
				go e.deliver(&alertCopy)
			} else {
				e.mu.Unlock()
			}
		}
	}
}

// Active returns copies of all currently firing alerts plus any alerts
// resolved within the past hour, sorted newest first.
func (e *Engine) Active() []*Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	cutoff := e.now().Add(-recentWindowHours * time.Hour)
	out := make([]*Alert, 0, len(e.active))

	for _, a := range e.active {
		cp := *a
		out = append(out, &cp)
	}
	for _, a := range e.history {
		if a.ResolvedAt != nil && a.ResolvedAt.After(cutoff) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FiredAt.After(out[j].FiredAt)
	})
	return out
}

// Firing returns the number of alerts currently firing.
func (e *Engine) Firing() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.active)
}

func displayName(r *types.StoreReport) string {
	if r.LocationName != "" {
		return r.LocationName
	}
	return r.LocationID
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
