package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_Defaults(t *testing.T) {
	// The agent section is present but ignored; the server section is absent.
	p := writeConfig(t, `agent:
  server_endpoint: "localhost:50051"
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := cfg.Server
	if s.GRPCPort != DefaultGRPCPort {
		t.Errorf("grpc_port: got %d, want %d", s.GRPCPort, DefaultGRPCPort)
	}
	if s.HTTPPort != DefaultHTTPPort {
		t.Errorf("http_port: got %d, want %d", s.HTTPPort, DefaultHTTPPort)
	}
	if s.Snapshot.TTL != DefaultSnapshotTTL {
		t.Errorf("snapshot.ttl: got %v, want %v", s.Snapshot.TTL, DefaultSnapshotTTL)
	}
	if s.Snapshot.BroadcastInterval != DefaultBroadcastEvery {
		t.Errorf("snapshot.broadcast_interval: got %v", s.Snapshot.BroadcastInterval)
	}
	if s.Storage.Backend != "" || s.Storage.Retention != DefaultHistoryRetention {
		t.Errorf("storage: got %+v", s.Storage)
	}
}

func TestLoad_FullServer(t *testing.T) {
	p := writeConfig(t, `server:
  grpc_port: 9090
  http_port: 9091
  auth:
    mode: apikey
    key_env: AGENT_KEY
    header: x-jolt-key
    users:
      - name: ops
        role: admin
        key_env: OPS_KEY
      - name: north-dm
        role: district
        scope: "D1, D2"
        key_env: DM_KEY
  snapshot:
    ttl: 10m
  storage:
    backend: sqlite
    path: /var/lib/jolt/history.db
    retention: 720h
  alerts:
    rules:
      - name: low-integrity
        condition: "integrity_min < 60"
        severity: critical
    webhooks:
      - type: teams
        url_env: TEAMS_URL
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := cfg.Server
	if s.GRPCPort != 9090 || s.HTTPPort != 9091 {
		t.Errorf("ports: got %d/%d", s.GRPCPort, s.HTTPPort)
	}
	if s.Auth.EffectiveHeader() != "x-jolt-key" {
		t.Errorf("header: got %q", s.Auth.EffectiveHeader())
	}
	if len(s.Auth.Users) != 2 || s.Auth.Users[1].Scope != "D1, D2" || s.Auth.Users[1].Role != "district" {
		t.Errorf("users: got %+v", s.Auth.Users)
	}
	if s.Snapshot.TTL != 10*time.Minute {
		t.Errorf("snapshot.ttl: got %v, want 10m", s.Snapshot.TTL)
	}
	if s.Storage.Backend != "sqlite" || s.Storage.Retention != 720*time.Hour {
		t.Errorf("storage: got %+v", s.Storage)
	}
	if len(s.Alerts.Rules) != 1 || s.Alerts.Rules[0].Condition != "integrity_min < 60" {
		t.Errorf("alerts: got %+v", s.Alerts)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown auth mode", "server:\n  auth:\n    mode: oauth2\n"},
		{"port out of range", "server:\n  http_port: 70000\n"},
		{"unknown role", "server:\n  auth:\n    users:\n      - name: x\n        role: owner\n        key_env: K\n"},
		{"user without key", "server:\n  auth:\n    users:\n      - name: x\n        role: store\n"},
		{"unknown backend", "server:\n  storage:\n    backend: postgres\n"},
		{"unknown webhook", "server:\n  alerts:\n    webhooks:\n      - type: pagerduty\n"},
		{"zero broadcast", "server:\n  snapshot:\n    broadcast_interval: 0s\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.yaml)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestEnvResolution(t *testing.T) {
	t.Setenv("TEST_SERVER_KEY", "supersecret")
	t.Setenv("TEST_USER_KEY", "userkey")
	t.Setenv("TEAMS_URL", "https://teams.example.com/webhook")

	if k := (AuthConfig{KeyEnv: "TEST_SERVER_KEY"}).Key(); k != "supersecret" {
		t.Errorf("AuthConfig.Key(): got %q", k)
	}
	if k := (UserConfig{KeyEnv: "TEST_USER_KEY"}).Key(); k != "userkey" {
		t.Errorf("UserConfig.Key(): got %q", k)
	}
	if u := (WebhookConfig{URLEnv: "TEAMS_URL"}).URL(); u != "https://teams.example.com/webhook" {
		t.Errorf("URL(): got %q", u)
	}
	if h := (AuthConfig{}).EffectiveHeader(); h != "x-api-key" {
		t.Errorf("EffectiveHeader: got %q, want x-api-key", h)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.yaml"); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}
