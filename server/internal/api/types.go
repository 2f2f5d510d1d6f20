package api

import "github.com/Ckuran148/Jolt/pkg/types"

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	State       string         `json:"state"` // "ok" | "attention" | "unknown"
	StoreCount  int            `json:"store_count"`
	HighCount   int            `json:"high_count"`
	MediumCount int            `json:"medium_count"`
	LowCount    int            `json:"low_count"`
	NACount     int            `json:"na_count"`
	ErrorCount  int            `json:"error_count"`
	Sanitizer   map[string]int `json:"sanitizer"`
	Flagged     []FlaggedStore `json:"flagged"`
	AlertCount  int            `json:"alert_count"`
}

// FlaggedStore is a store that needs attention, with the reasons why.
type FlaggedStore struct {
	LocationID string   `json:"location_id"`
	Name       string   `json:"name"`
	Reasons    []string `json:"reasons"`
}

// GridRow is one store in GET /api/v1/grid.
type GridRow struct {
	LocationID string            `json:"location_id"`
	Name       string            `json:"name"`
	Market     string            `json:"market"`
	District   string            `json:"district"`
	DP1        types.DaypartCell `json:"dp1"`
	DP3        types.DaypartCell `json:"dp3"`
	DP5        types.DaypartCell `json:"dp5"`
	Sanitizer  string            `json:"sanitizer"`
	Error      string            `json:"error,omitempty"`
	LastSeen   string            `json:"last_seen"` // RFC3339
}

// SafetyGridRow is one store in GET /api/v1/safety.
type SafetyGridRow struct {
	LocationID string `json:"location_id"`
	Name       string `json:"name"`
	Market     string `json:"market"`
	District   string `json:"district"`
	types.SafetyRow
}

// FiltersResponse is the payload for GET /api/v1/filters.
type FiltersResponse struct {
	Markets   []string `json:"markets"`
	Districts []string `json:"districts"`
}

// ListDetailResponse is the payload for GET /api/v1/stores/{id}/lists/{listID}.
type ListDetailResponse struct {
	LocationID   string            `json:"location_id"`
	LocationName string            `json:"location_name"`
	List         types.ListSummary `json:"list"`
	Diagnostics  []DiagnosticHint  `json:"diagnostics"`
}

// SnapshotResponse is the payload for GET /api/v1/snapshot and the data of
// every WebSocket broadcast.
type SnapshotResponse struct {
	Stores      []*types.StoreReport `json:"stores"`
	GeneratedAt string               `json:"generated_at"` // RFC3339
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
