package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Ckuran148/Jolt/server/internal/config"
)

// queryKeyParam lets browsers authenticate WebSocket upgrades, which cannot
// carry custom headers.
const queryKeyParam = "api_key"

type keyedProfile struct {
	key     string
	profile Profile
}

// Authenticator resolves dashboard API keys to profiles.
type Authenticator struct {
	mode   string
	header string
	keys   []keyedProfile
}

// NewAuthenticator builds an Authenticator from the server auth config.
// The agent key, when set, is accepted as an admin profile named "service".
func NewAuthenticator(cfg config.AuthConfig) *Authenticator {
	a := &Authenticator{mode: cfg.Mode, header: cfg.EffectiveHeader()}
	for _, u := range cfg.Users {
		key := u.Key()
		if key == "" {
			slog.Warn("auth: user key not set, profile disabled", "user", u.Name, "key_env", u.KeyEnv)
			continue
		}
		a.keys = append(a.keys, keyedProfile{key: key, profile: Profile{Name: u.Name, Role: u.Role, Scope: u.Scope}})
	}
	if k := cfg.Key(); k != "" {
		a.keys = append(a.keys, keyedProfile{key: k, profile: Profile{Name: "service", Role: RoleAdmin}})
	}
	return a
}

// Resolve returns the profile for key.
func (a *Authenticator) Resolve(key string) (Profile, bool) {
	if a.mode != "apikey" || len(a.keys) == 0 {
		return Anonymous, true
	}
	if key == "" {
		return Profile{}, false
	}
	for _, kp := range a.keys {
		if equalKeys(key, kp.key) {
			return kp.profile, true
		}
	}
	return Profile{}, false
}

// Middleware authenticates every request and stores the profile in its
// context. Unknown keys get 401.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(a.header)
		if key == "" {
			key = r.URL.Query().Get(queryKeyParam)
		}
		p, ok := a.Resolve(key)
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid api key"}) //nolint:errcheck
			return
		}
		next.ServeHTTP(w, r.WithContext(WithProfile(r.Context(), p)))
	})
}
