package config

import "fmt"

// Config is the YAML-backed server configuration. Environment variables and
// command-line flags can override individual values; flags win.
type Config struct {
	Server struct {
		Address string `yaml:"address"`
		Port    int    `yaml:"port"`
		TLS     struct {
			CertFile string `yaml:"cert_file"`
			KeyFile  string `yaml:"key_file"`
		} `yaml:"tls"`
	} `yaml:"server"`

	Storage struct {
		DBPath string `yaml:"db_path"`
		// Ephemeral swaps the Pebble substrate for an in-memory one; nothing
		// survives a restart. Meant for demos and tests.
		Ephemeral bool `yaml:"ephemeral"`
		// Keys names the substrate entries the feed persists into. Explicit
		// so storage collisions across environments are avoidable and the
		// substrate is testable with a fake.
		Keys StorageKeys `yaml:"keys"`
	} `yaml:"storage"`

	Feed struct {
		// SeedDemo installs the three fixture ads when the persisted feed is
		// absent. Default off: an empty substrate means an empty feed.
		SeedDemo bool `yaml:"seed_demo"`
	} `yaml:"feed"`

	Retention struct {
		Enabled bool   `yaml:"enabled"`
		Cron    string `yaml:"cron"`
		// MaxAge is a Go duration; ads older than this are pruned by the
		// scheduled sweep.
		MaxAge string `yaml:"max_age"`
	} `yaml:"retention"`

	Security struct {
		CORS struct {
			AllowedOrigins []string `yaml:"allowed_origins"`
		} `yaml:"cors"`
		RateLimit struct {
			RPS   float64 `yaml:"rps"`
			Burst int     `yaml:"burst"`
		} `yaml:"rate_limit"`
		IPWhitelist []string `yaml:"ip_whitelist"`
	} `yaml:"security"`

	Assist struct {
		// APIKey for the outbound text service. Empty disables the
		// assistant endpoints' real backend; they then answer with the
		// fixed fallback strings.
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"assist"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// StorageKeys names the persisted collections in the key-value substrate.
type StorageKeys struct {
	Messages string `yaml:"messages"`
	OwnedIDs string `yaml:"owned_ids"`
	Theme    string `yaml:"theme"`
}

// DefaultStorageKeys returns the canonical key names.
func DefaultStorageKeys() StorageKeys {
	return StorageKeys{
		Messages: "feed.messages",
		OwnedIDs: "feed.ownedIds",
		Theme:    "ui.theme",
	}
}

// OrDefaults fills any unset key name with its canonical value.
func (k StorageKeys) OrDefaults() StorageKeys {
	d := DefaultStorageKeys()
	if k.Messages == "" {
		k.Messages = d.Messages
	}
	if k.OwnedIDs == "" {
		k.OwnedIDs = d.OwnedIDs
	}
	if k.Theme == "" {
		k.Theme = d.Theme
	}
	return k
}

// Addr returns the listen address derived from server.address and
// server.port, or empty when neither is configured.
func (c *Config) Addr() string {
	if c == nil {
		return ""
	}
	if c.Server.Address == "" && c.Server.Port == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
