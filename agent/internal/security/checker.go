package security

import (
	"context"
	"crypto/tls"
	"math"
	"net"
	"net/url"
	"time"

	"github.com/Ckuran148/Jolt/agent/internal/config"
)

// Certificate states.
const (
	StatusValid       = "valid"
	StatusExpiring    = "expiring"
	StatusExpired     = "expired"
	StatusUnreachable = "unreachable"
)

const (
	dialTimeout  = 10 * time.Second
	expiringDays = 30
)

// CertStatus describes the leaf certificate served by the checklist API.
type CertStatus struct {
	Endpoint string `json:"endpoint"`
	AuthType string `json:"auth_type"`
	Status   string `json:"status"`
	Issuer   string `json:"issuer,omitempty"`
	NotAfter string `json:"not_after,omitempty"`
	DaysLeft int    `json:"days_left"`
}

// Check dials the endpoint of cfg and inspects the leaf certificate.
// Returns nil for endpoints that are not https.
func Check(ctx context.Context, cfg config.JoltConfig) *CertStatus {
	return check(ctx, cfg, time.Now())
}

func check(ctx context.Context, cfg config.JoltConfig, now time.Time) *CertStatus {
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || u.Scheme != "https" {
		return nil
	}

	cs := &CertStatus{
		Endpoint: cfg.Endpoint,
		AuthType: cfg.Auth.Mode,
	}
	if cs.AuthType == "" {
		cs.AuthType = "none"
	}

	host := u.Host
	if _, _, err := net.SplitHostPort(host); err != nil {
		host = net.JoinHostPort(host, "443")
	}

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{},
		Config: &tls.Config{
			InsecureSkipVerify: cfg.TLS.InsecureSkipVerify, //nolint:gosec // user-configured
		},
	}

	netConn, err := dialer.DialContext(dialCtx, "tcp", host)
	if err != nil {
		cs.Status = StatusUnreachable
		return cs
	}
	conn := netConn.(*tls.Conn)
	defer conn.Close()

	peerCerts := conn.ConnectionState().PeerCertificates
	if len(peerCerts) == 0 {
		cs.Status = StatusUnreachable
		return cs
	}

	leaf := peerCerts[0]
	daysLeft := leaf.NotAfter.Sub(now).Hours() / 24

	cs.NotAfter = leaf.NotAfter.UTC().Format(time.RFC3339)
	cs.Issuer = leaf.Issuer.CommonName
	if cs.Issuer == "" && len(leaf.Issuer.Organization) > 0 {
		cs.Issuer = leaf.Issuer.Organization[0]
	}
	cs.DaysLeft = int(math.Floor(daysLeft))

	switch {
	case daysLeft <= 0:
		cs.Status = StatusExpired
	case daysLeft <= expiringDays:
		cs.Status = StatusExpiring
	default:
		cs.Status = StatusValid
	}
	return cs
}
