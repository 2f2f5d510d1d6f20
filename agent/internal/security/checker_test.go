package security

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ckuran148/Jolt/agent/internal/config"
)

func tlsServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheck_PlainHTTPReturnsNil(t *testing.T) {
	cs := Check(context.Background(), config.JoltConfig{Endpoint: "http://localhost:8080/graphql"})
	if cs != nil {
		t.Errorf("expected nil for http endpoint, got %+v", cs)
	}
}

func TestCheck_Statuses(t *testing.T) {
	srv := tlsServer(t)
	notAfter := srv.Certificate().NotAfter
	cfg := config.JoltConfig{
		Endpoint: srv.URL + "/graphql",
		Auth:     config.AuthConfig{Mode: "bearer"},
		TLS:      config.TLSConfig{InsecureSkipVerify: true},
	}

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"valid", notAfter.AddDate(0, 0, -90), StatusValid},
		{"expiring", notAfter.AddDate(0, 0, -10), StatusExpiring},
		{"expired", notAfter.Add(time.Hour), StatusExpired},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cs := check(context.Background(), cfg, tc.now)
			if cs == nil {
				t.Fatal("expected a status for https endpoint")
			}
			if cs.Status != tc.want {
				t.Errorf("status: got %q, want %q", cs.Status, tc.want)
			}
			if cs.AuthType != "bearer" {
				t.Errorf("auth type: got %q", cs.AuthType)
			}
			if cs.NotAfter != notAfter.UTC().Format(time.RFC3339) {
				t.Errorf("not_after: got %q", cs.NotAfter)
			}
		})
	}
}

func TestCheck_Unreachable(t *testing.T) {
	// Grab a free port, then close it so the dial is refused.
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := lis.Addr().String()
	lis.Close()

	cs := Check(context.Background(), config.JoltConfig{Endpoint: "https://" + addr})
	if cs == nil || cs.Status != StatusUnreachable {
		t.Fatalf("expected unreachable, got %+v", cs)
	}
	if cs.AuthType != "none" {
		t.Errorf("auth type: got %q, want none", cs.AuthType)
	}
}

func TestCheck_UnverifiedCertIsUnreachable(t *testing.T) {
	srv := tlsServer(t)
	cs := Check(context.Background(), config.JoltConfig{Endpoint: srv.URL})
	if cs == nil || cs.Status != StatusUnreachable {
		t.Fatalf("self-signed cert without insecure_skip_verify: got %+v", cs)
	}
}
