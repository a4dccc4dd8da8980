package dashboard

import (
	"context"

	"github.com/rs/zerolog"

	"wgdash/internal/addrutil"
)

// PublicIPResolver discovers this machine's public address and NAT type.
type PublicIPResolver func(ctx context.Context) (ip, natType string, err error)

// ResolvePublicIP fills the session's fallback public IP when the gateway
// API is on this machine and no address was configured. It reports
// whether an address was set.
func ResolvePublicIP(ctx context.Context, s *Session, baseURL string, resolve PublicIPResolver, log zerolog.Logger) bool {
	s.mu.Lock()
	configured := s.publicIP
	s.mu.Unlock()
	if configured != "" || resolve == nil || !addrutil.IsLoopbackURL(baseURL) {
		return false
	}

	ip, natType, err := resolve(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("public address discovery failed")
		return false
	}
	s.SetPublicIP(ip)
	log.Info().Str("public_ip", ip).Str("nat_type", natType).Msg("public address discovered")
	return true
}
