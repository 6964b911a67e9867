package app

import (
	"fmt"
	"net"
	"strings"

	"elele/pkg/config"
)

// validateConfig checks the effective config for problems worth failing
// fast on, before any resource is opened.
func validateConfig(eff config.EffectiveConfigResult) error {
	if eff.Config == nil {
		return fmt.Errorf("no configuration loaded")
	}
	if strings.TrimSpace(eff.Addr) == "" {
		return fmt.Errorf("listen address is empty")
	}
	if _, _, err := net.SplitHostPort(eff.Addr); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", eff.Addr, err)
	}
	if !eff.Config.Storage.Ephemeral && strings.TrimSpace(eff.DBPath) == "" {
		return fmt.Errorf("db path is empty (use --db or ELELE_DB_PATH)")
	}
	if eff.Config.Security.RateLimit.RPS < 0 {
		return fmt.Errorf("rate limit rps must not be negative")
	}
	if eff.Config.Security.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limit burst must not be negative")
	}

	keys := eff.Config.Storage.Keys
	if keys.Messages == keys.OwnedIDs || keys.Messages == keys.Theme || keys.OwnedIDs == keys.Theme {
		return fmt.Errorf("storage key names must be distinct: %+v", keys)
	}

	cert := eff.Config.Server.TLS.CertFile
	key := eff.Config.Server.TLS.KeyFile
	if (cert == "") != (key == "") {
		return fmt.Errorf("tls requires both cert_file and key_file")
	}
	return nil
}
