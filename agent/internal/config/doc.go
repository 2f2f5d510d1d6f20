// Package config loads and watches the agent configuration file (config.yaml).
//
// Top-level types:
//   - Config{Agent}: the `agent:` section of config.yaml
//   - AgentConfig: server_endpoint, poll_interval, ship_interval, buffer_size,
//     concurrency, rate_per_second, timezone, metadata_csv, locations,
//     safety_grid, jolt, server_auth
//   - JoltConfig: checklist API endpoint, auth, tls, timeout
//   - AuthConfig: mode (mtls|apikey|bearer|basic|none), cert/key/ca files,
//     header, key_env, token_env, username, password_env; Key(), Token() and
//     Password() resolve secrets from environment variables
//
// Load(path) reads the YAML file, applies defaults (5m poll, 15s ship,
// 1000 buffer, 3 workers, 2 req/s, 30s API timeout), then validates required
// fields and enums.
//
// Watch(ctx, path, onChange) uses fsnotify to detect file changes and calls
// onChange with the newly parsed Config. The location allow-list and the
// metadata sheet path take effect on the next poll cycle.
package config
