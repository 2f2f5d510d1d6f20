package receiver_test

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/Ckuran148/Jolt/pkg/types"
	"github.com/Ckuran148/Jolt/pkg/wire"
	"github.com/Ckuran148/Jolt/server/internal/auth"
	"github.com/Ckuran148/Jolt/server/internal/receiver"
	"github.com/Ckuran148/Jolt/server/internal/store"
)

type fakeHooks struct {
	mu        sync.Mutex
	evaluated []string
	recorded  []string
	recordErr error
}

func (f *fakeHooks) Evaluate(r *types.StoreReport) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evaluated = append(f.evaluated, r.LocationID)
}

func (f *fakeHooks) Record(_ context.Context, r *types.StoreReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recorded = append(f.recorded, r.LocationID)
	return f.recordErr
}

// startServer starts a gRPC server with the given interceptor and returns a
// connected client. Uses a random TCP port.
func startServer(t *testing.T, interceptor grpc.UnaryServerInterceptor, hooks *fakeHooks) (wire.ReportServiceClient, *store.Store) {
	t.Helper()

	st := store.New(5 * time.Minute)
	var rec *receiver.Receiver
	if hooks != nil {
		rec = receiver.New(st, hooks, hooks)
	} else {
		rec = receiver.New(st, nil, nil)
	}

	srv := grpc.NewServer(grpc.UnaryInterceptor(interceptor))
	wire.RegisterReportServiceServer(srv, rec)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	go srv.Serve(lis) //nolint:errcheck

	t.Cleanup(func() {
		srv.Stop()
		lis.Close()
	})

	conn, err := grpc.Dial(lis.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	) //nolint:staticcheck
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return wire.NewReportServiceClient(conn), st
}

// allowAll is a no-op interceptor that passes every call through.
func allowAll(ctx context.Context, req interface{}, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	return handler(ctx, req)
}

func TestSendReport_StoresReport(t *testing.T) {
	client, st := startServer(t, allowAll, nil)

	rep := &types.StoreReport{
		LocationID:   "loc-1",
		LocationName: "Main St #101",
		Market:       "North",
		Sanitizer:    types.SanitizerOK,
		Dayparts:     []types.DaypartCell{{Daypart: types.Daypart1, Status: types.StatusComplete}},
	}

	resp, err := client.SendReport(context.Background(), rep)
	if err != nil {
		t.Fatalf("SendReport: %v", err)
	}
	if !resp.OK {
		t.Errorf("OK: got false, want true")
	}

	e, ok := st.Get("loc-1")
	if !ok {
		t.Fatal("store.Get: expected entry, got none")
	}
	if e.Report.LocationName != "Main St #101" || e.Report.Market != "North" {
		t.Errorf("report: got %+v", e.Report)
	}
	if c := e.Report.Cell(types.Daypart1); c == nil || c.Status != types.StatusComplete {
		t.Errorf("dp1: got %+v", c)
	}
}

func TestSendReport_MissingLocationID_InvalidArgument(t *testing.T) {
	client, _ := startServer(t, allowAll, nil)

	_, err := client.SendReport(context.Background(), &types.StoreReport{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code := status.Code(err); code != codes.InvalidArgument {
		t.Errorf("code: got %v, want InvalidArgument", code)
	}
}

func TestSendReport_UpdateExistingLocation(t *testing.T) {
	client, st := startServer(t, allowAll, nil)

	ctx := context.Background()
	if _, err := client.SendReport(ctx, &types.StoreReport{LocationID: "loc", Sanitizer: types.SanitizerOK}); err != nil {
		t.Fatalf("first SendReport: %v", err)
	}
	if _, err := client.SendReport(ctx, &types.StoreReport{LocationID: "loc", Sanitizer: types.SanitizerExpired}); err != nil {
		t.Fatalf("second SendReport: %v", err)
	}

	if st.Count() != 1 {
		t.Errorf("store.Count: got %d, want 1 (updates, not appends)", st.Count())
	}
	e, _ := st.Get("loc")
	if e.Report.Sanitizer != types.SanitizerExpired {
		t.Errorf("Sanitizer: got %q, want EXPIRED", e.Report.Sanitizer)
	}
}

func TestSendReport_RunsHooks(t *testing.T) {
	hooks := &fakeHooks{recordErr: errors.New("disk full")}
	client, st := startServer(t, allowAll, hooks)

	for _, id := range []string{"a", "b"} {
		if _, err := client.SendReport(context.Background(), &types.StoreReport{LocationID: id}); err != nil {
			t.Fatalf("SendReport %q: %v (history failures must not fail the call)", id, err)
		}
	}

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.evaluated) != 2 || len(hooks.recorded) != 2 {
		t.Errorf("hooks: evaluated %v, recorded %v", hooks.evaluated, hooks.recorded)
	}
	if st.Count() != 2 {
		t.Errorf("store.Count: got %d, want 2", st.Count())
	}
}

func TestSendReport_WithAPIKeyInterceptor(t *testing.T) {
	i := auth.APIKeyInterceptor("apikey", "x-api-key", "testkey")

	tests := []struct {
		name     string
		key      string
		wantCode codes.Code
	}{
		{"correct key", "testkey", codes.OK},
		{"wrong key", "wrongkey", codes.Unauthenticated},
		{"missing key", "", codes.Unauthenticated},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, st := startServer(t, i, nil)

			ctx := context.Background()
			if tc.key != "" {
				ctx = metadata.AppendToOutgoingContext(ctx, "x-api-key", tc.key)
			}
			_, err := client.SendReport(ctx, &types.StoreReport{LocationID: "loc"})
			if code := status.Code(err); code != tc.wantCode {
				t.Fatalf("code: got %v, want %v", code, tc.wantCode)
			}
			wantCount := 0
			if tc.wantCode == codes.OK {
				wantCount = 1
			}
			if st.Count() != wantCount {
				t.Errorf("store.Count: got %d, want %d", st.Count(), wantCount)
			}
		})
	}
}
