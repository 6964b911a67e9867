package app

import (
	"strings"
	"testing"

	"elele/pkg/config"
)

func validEff() config.EffectiveConfigResult {
	cfg := &config.Config{}
	cfg.Storage.Keys = config.DefaultStorageKeys()
	return config.EffectiveConfigResult{
		Config: cfg,
		Addr:   ":8080",
		DBPath: "./.database",
	}
}

func TestValidateConfigAccepts(t *testing.T) {
	if err := validateConfig(validEff()); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateConfigRejects(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*config.EffectiveConfigResult)
		wantSub string
	}{
		{"nil config", func(e *config.EffectiveConfigResult) { e.Config = nil }, "no configuration"},
		{"empty addr", func(e *config.EffectiveConfigResult) { e.Addr = " " }, "listen address is empty"},
		{"bad addr", func(e *config.EffectiveConfigResult) { e.Addr = "no-port" }, "invalid listen address"},
		{"no db path", func(e *config.EffectiveConfigResult) { e.DBPath = "" }, "db path is empty"},
		{"negative rps", func(e *config.EffectiveConfigResult) { e.Config.Security.RateLimit.RPS = -1 }, "rps"},
		{"negative burst", func(e *config.EffectiveConfigResult) { e.Config.Security.RateLimit.Burst = -1 }, "burst"},
		{"colliding keys", func(e *config.EffectiveConfigResult) { e.Config.Storage.Keys.OwnedIDs = "feed.messages" }, "distinct"},
		{"half tls", func(e *config.EffectiveConfigResult) { e.Config.Server.TLS.CertFile = "cert.pem" }, "cert_file and key_file"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			eff := validEff()
			tc.mutate(&eff)
			err := validateConfig(eff)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestValidateConfigEphemeralSkipsDBPath(t *testing.T) {
	eff := validEff()
	eff.DBPath = ""
	eff.Config.Storage.Ephemeral = true
	if err := validateConfig(eff); err != nil {
		t.Fatalf("ephemeral should not need a db path: %v", err)
	}
}
