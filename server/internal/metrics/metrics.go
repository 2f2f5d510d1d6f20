package metrics

import (
	"log/slog"
	"net/http"
	"sort"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/Ckuran148/Jolt/pkg/types"
	"github.com/Ckuran148/Jolt/server/internal/store"
)

// Metric names.
const (
	nameStores            = "jolt_stores"
	nameStoreErrors       = "jolt_store_collection_errors"
	nameIntegrity         = "jolt_daypart_integrity_score"
	nameCorrectiveActions = "jolt_daypart_corrective_actions"
	nameDaypartStatus     = "jolt_daypart_status"
	nameSanitizer         = "jolt_sanitizer_severity"
	nameAlertsFiring      = "jolt_alerts_firing"
	nameWSClients         = "jolt_websocket_clients"
)

// Counter reports a current count. The alert engine and the WebSocket hub
// both satisfy it.
type Counter interface {
	Count() int
}

// CounterFunc adapts a function to Counter.
type CounterFunc func() int

// Count calls f.
func (f CounterFunc) Count() int { return f() }

// Exporter renders the live store state in Prometheus text format.
type Exporter struct {
	store   *store.Store
	alerts  Counter
	clients Counter
}

// New returns an Exporter over st. alerts and clients may be nil.
func New(st *store.Store, alerts, clients Counter) *Exporter {
	return &Exporter{store: st, alerts: alerts, clients: clients}
}

// ServeHTTP writes every metric family in the text exposition format.
func (e *Exporter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	w.Header().Set("Content-Type", string(format))
	enc := expfmt.NewEncoder(w, format)
	for _, mf := range e.Gather() {
		if err := enc.Encode(mf); err != nil {
			slog.Error("metrics: encode failed", "family", mf.GetName(), "err", err)
			return
		}
	}
}

// Gather builds the metric families from the current live reports.
func (e *Exporter) Gather() []*dto.MetricFamily {
	entries := e.store.List()
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Report.LocationID < entries[j].Report.LocationID
	})

	stores := family(nameStores, "Stores with a live report.", dto.MetricType_GAUGE)
	stores.Metric = append(stores.Metric, gauge(float64(len(entries))))

	errs := family(nameStoreErrors, "Stores whose last collection failed.", dto.MetricType_GAUGE)
	integrity := family(nameIntegrity, "Integrity score of the daypart's list (0-100).", dto.MetricType_GAUGE)
	cas := family(nameCorrectiveActions, "Corrective actions logged on the daypart's list.", dto.MetricType_GAUGE)
	status := family(nameDaypartStatus, "Daypart completion status; 1 for the current status.", dto.MetricType_GAUGE)
	sanitizer := family(nameSanitizer, "Sanitizer expiration severity: 0 OK, 1 warning, 2 expiring, 3 expired.", dto.MetricType_GAUGE)

	failed := 0
	for _, en := range entries {
		r := en.Report
		if r.Error != "" {
			failed++
		}
		base := storeLabels(r)
		sanitizer.Metric = append(sanitizer.Metric,
			gauge(float64(types.SanitizerSeverity(r.Sanitizer)), base...))

		for _, c := range r.Dayparts {
			dp := append(append([]*dto.LabelPair(nil), base...), label("daypart", c.Daypart))
			if c.IntegrityScore != nil {
				integrity.Metric = append(integrity.Metric, gauge(float64(*c.IntegrityScore), dp...))
			}
			cas.Metric = append(cas.Metric, gauge(float64(c.CorrectiveActions), dp...))
			st := append(append([]*dto.LabelPair(nil), dp...), label("status", c.Status))
			status.Metric = append(status.Metric, gauge(1, st...))
		}
	}
	errs.Metric = append(errs.Metric, gauge(float64(failed)))

	out := []*dto.MetricFamily{stores, errs}
	for _, f := range []*dto.MetricFamily{integrity, cas, status, sanitizer} {
		if len(f.Metric) > 0 {
			out = append(out, f)
		}
	}
	if e.alerts != nil {
		f := family(nameAlertsFiring, "Alerts currently firing.", dto.MetricType_GAUGE)
		f.Metric = append(f.Metric, gauge(float64(e.alerts.Count())))
		out = append(out, f)
	}
	if e.clients != nil {
		f := family(nameWSClients, "Connected WebSocket clients.", dto.MetricType_GAUGE)
		f.Metric = append(f.Metric, gauge(float64(e.clients.Count())))
		out = append(out, f)
	}
	return out
}

func family(name, help string, typ dto.MetricType) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: proto.String(name),
		Help: proto.String(help),
		Type: typ.Enum(),
	}
}

func gauge(v float64, labels ...*dto.LabelPair) *dto.Metric {
	return &dto.Metric{
		Label: labels,
		Gauge: &dto.Gauge{Value: proto.Float64(v)},
	}
}

func label(name, value string) *dto.LabelPair {
	return &dto.LabelPair{Name: proto.String(name), Value: proto.String(value)}
}

func storeLabels(r *types.StoreReport) []*dto.LabelPair {
	return []*dto.LabelPair{
		label("district", r.District),
		label("location", r.LocationName),
		label("location_id", r.LocationID),
		label("market", r.Market),
	}
}
