package collector

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Ckuran148/Jolt/agent/internal/compute"
	"github.com/Ckuran148/Jolt/agent/internal/config"
	"github.com/Ckuran148/Jolt/agent/internal/metadata"
	"github.com/Ckuran148/Jolt/pkg/types"
)

const monthLayout = "2006-01"

// Source is the checklist API.
type Source interface {
	Locations(ctx context.Context) ([]types.Location, error)
	ListInstances(ctx context.Context, locationID string, start, end int64) ([]types.ListInstance, error)
}

// Sink receives finished reports. Ship must not block for long.
type Sink interface {
	Ship(r *types.StoreReport)
}

// Collector polls Source and ships one report per location per cycle.
type Collector struct {
	src  Source
	sink Sink

	mu        sync.RWMutex
	cfg       config.AgentConfig
	sheet     *metadata.Sheet
	sheetPath string

	now func() time.Time // injectable for tests
}

// New creates a Collector and loads the metadata sheet named by cfg.
func New(src Source, sink Sink, cfg config.AgentConfig) *Collector {
	c := &Collector{src: src, sink: sink, now: time.Now}
	c.Reload(cfg)
	return c
}

// Reload swaps in a new config. The metadata sheet is re-read when its path
// changed; the change applies from the next cycle.
func (c *Collector) Reload(cfg config.AgentConfig) {
	c.mu.RLock()
	samePath := c.sheet != nil && c.sheetPath == cfg.MetadataCSV
	c.mu.RUnlock()

	sheet := c.currentSheet()
	if !samePath {
		sheet = loadSheet(cfg.MetadataCSV)
	}

	c.mu.Lock()
	c.cfg = cfg
	c.sheet = sheet
	c.sheetPath = cfg.MetadataCSV
	c.mu.Unlock()
}

func (c *Collector) currentSheet() *metadata.Sheet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sheet
}

func loadSheet(path string) *metadata.Sheet {
	if path == "" {
		return &metadata.Sheet{}
	}
	sheet, err := metadata.Load(path)
	if err != nil {
		slog.Error("collector: metadata sheet unavailable, locations stay unassigned",
			"path", path, "err", err)
		return &metadata.Sheet{}
	}
	slog.Info("collector: metadata sheet loaded", "path", path, "rows", sheet.Len())
	return sheet
}

// Run collects once immediately and then every PollInterval until ctx is
// cancelled.
func (c *Collector) Run(ctx context.Context) {
	for {
		start := time.Now()
		n, err := c.Collect(ctx)
		if err != nil && ctx.Err() == nil {
			slog.Error("collector: cycle failed", "err", err)
		} else if err == nil {
			slog.Info("collector: cycle complete", "reports", n, "took", time.Since(start).Round(time.Millisecond))
		}

		c.mu.RLock()
		interval := c.cfg.PollInterval
		c.mu.RUnlock()

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

// Collect runs one cycle and returns the number of reports shipped.
func (c *Collector) Collect(ctx context.Context) (int, error) {
	c.mu.RLock()
	cfg := c.cfg
	sheet := c.sheet
	c.mu.RUnlock()

	tz, err := cfg.Location()
	if err != nil {
		return 0, err
	}
	now := c.now().In(tz)

	locs, err := c.src.Locations(ctx)
	if err != nil {
		return 0, err
	}

	var (
		g       errgroup.Group
		mu      sync.Mutex
		shipped int
	)
	g.SetLimit(cfg.Concurrency)
	for _, loc := range locs {
		if !cfg.Allowed(loc.ID) {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			market, district := sheet.Assign(loc.Name)
			r := c.collectLocation(ctx, cfg, loc, market, district, now)
			c.sink.Ship(r)
			mu.Lock()
			shipped++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return shipped, err
	}
	return shipped, ctx.Err()
}

// collectLocation builds the report for one location. It never fails; fetch
// errors are recorded on the report.
func (c *Collector) collectLocation(ctx context.Context, cfg config.AgentConfig, loc types.Location, market, district string, now time.Time) *types.StoreReport {
	start, end := DayRange(now)
	lists, err := c.src.ListInstances(ctx, loc.ID, start, end)
	if err != nil {
		slog.Warn("collector: fetch failed", "location", loc.ID, "name", loc.Name, "err", err)
		r := compute.BuildStoreReport(loc, market, district, nil, now)
		r.DFSL = nil
		r.Error = err.Error()
		return &r
	}

	r := compute.BuildStoreReport(loc, market, district, lists, now)

	if cfg.SafetyGrid {
		mStart, mEnd := MonthRange(now)
		monthly, err := c.src.ListInstances(ctx, loc.ID, mStart, mEnd)
		if err != nil {
			slog.Warn("collector: monthly fetch failed", "location", loc.ID, "err", err)
		} else {
			row := compute.BuildSafetyRow(monthly, now.Format(monthLayout))
			r.Safety = &row
		}
	}

	slog.Debug("collector: report built",
		"location", loc.ID,
		"lists", len(lists),
		"sanitizer", r.Sanitizer,
	)
	return &r
}

// DayRange returns the first and last second of now's calendar day in
// now's location, as unix seconds.
func DayRange(now time.Time) (start, end int64) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return day.Unix(), day.AddDate(0, 0, 1).Unix() - 1
}

// MonthRange returns the first and last second of now's calendar month.
func MonthRange(now time.Time) (start, end int64) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.Unix(), first.AddDate(0, 1, 0).Unix() - 1
}
