package receiver

import (
	"context"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Ckuran148/Jolt/pkg/types"
	"github.com/Ckuran148/Jolt/pkg/wire"
	"github.com/Ckuran148/Jolt/server/internal/store"
)

// Evaluator checks alert rules against a report.
type Evaluator interface {
	Evaluate(r *types.StoreReport)
}

// Recorder persists a report's daypart outcomes.
type Recorder interface {
	Record(ctx context.Context, r *types.StoreReport) error
}

// Receiver implements wire.ReportServiceServer.
// It validates each incoming StoreReport, stores it in the state store, and
// hands it to the alert engine and history recorder when configured.
type Receiver struct {
	store    *store.Store
	alerts   Evaluator
	recorder Recorder
}

// New creates a Receiver that writes accepted reports to st. ev and rec may
// be nil.
func New(st *store.Store, ev Evaluator, rec Recorder) *Receiver {
	return &Receiver{store: st, alerts: ev, recorder: rec}
}

// SendReport is the unary RPC handler called by jolt-agent instances.
// Authentication is enforced by the gRPC server interceptor before this is called.
func (r *Receiver) SendReport(ctx context.Context, rep *types.StoreReport) (*wire.SendReportResponse, error) {
	if rep.LocationID == "" {
		return nil, status.Error(codes.InvalidArgument, "location_id is required")
	}

	r.store.Put(rep)

	if r.alerts != nil {
		r.alerts.Evaluate(rep)
	}
	if r.recorder != nil {
		// History is best-effort; the live view must not depend on it.
		if err := r.recorder.Record(ctx, rep); err != nil {
			slog.Error("receiver: history record failed", "location_id", rep.LocationID, "err", err)
		}
	}

	slog.Debug("receiver: report stored",
		"location_id", rep.LocationID,
		"location", rep.LocationName,
		"sanitizer", rep.Sanitizer,
		"error", rep.Error,
	)

	return &wire.SendReportResponse{OK: true}, nil
}
