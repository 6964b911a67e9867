package config

import (
	"flag"
	"net"
	"os"
	"strconv"
	"strings"
)

// Flags holds parsed command-line flag values and which were set.
type Flags struct {
	Addr      string
	DB        string
	Config    string
	Ephemeral bool
	Set       map[string]bool
}

// EffectiveConfigResult is the merged view of flags, env and config file
// that the rest of the server consumes.
type EffectiveConfigResult struct {
	Config  *Config
	Addr    string
	DBPath  string
	Source  string // "flags", "env", or "config"
	EnvUsed bool
}

// ParseConfigFlags parses command-line flags and returns them as a Flags struct.
func ParseConfigFlags() Flags {
	addrPtr := flag.String("addr", ":8080", "HTTP listen address")
	dbPtr := flag.String("db", "./.database", "Pebble DB path")
	cfgPtr := flag.String("config", "./config.yaml", "Path to config file")
	ephPtr := flag.Bool("ephemeral", false, "Use in-memory storage (nothing persists)")
	flag.Parse()
	setFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	return Flags{Addr: *addrPtr, DB: *dbPtr, Config: *cfgPtr, Ephemeral: *ephPtr, Set: setFlags}
}

// ParseConfigFile resolves the config path and loads the YAML file. A
// missing file is not fatal; the boolean reports whether it was present.
func ParseConfigFile(flags Flags) (*Config, bool, error) {
	cfgPath := ResolveConfigPath(flags.Config, flags.Set["config"])
	cfg, err := Load(cfgPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, false, nil
		}
		return nil, false, err
	}
	return cfg, true, nil
}

// ParseConfigEnvs reads ELELE_* environment variables into a fresh Config
// and reports whether any were present. It does not mutate caller state.
func ParseConfigEnvs() (*Config, bool) {
	envCfg := &Config{}
	envUsed := false
	parseList := func(v string) []string {
		var parts []string
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				parts = append(parts, s)
			}
		}
		return parts
	}

	if v := os.Getenv("ELELE_SERVER_ADDR"); v != "" {
		envUsed = true
		if h, p, err := net.SplitHostPort(v); err == nil {
			envCfg.Server.Address = h
			if pi, err := strconv.Atoi(p); err == nil {
				envCfg.Server.Port = pi
			}
		}
	}
	if v := os.Getenv("ELELE_DB_PATH"); v != "" {
		envUsed = true
		envCfg.Storage.DBPath = v
	}
	if v := os.Getenv("ELELE_STORAGE_EPHEMERAL"); isTruthy(v) {
		envUsed = true
		envCfg.Storage.Ephemeral = true
	}
	if v := os.Getenv("ELELE_FEED_SEED_DEMO"); isTruthy(v) {
		envUsed = true
		envCfg.Feed.SeedDemo = true
	}
	if v := os.Getenv("ELELE_CORS_ALLOWED_ORIGINS"); v != "" {
		envUsed = true
		envCfg.Security.CORS.AllowedOrigins = parseList(v)
	}
	if v := os.Getenv("ELELE_RATE_LIMIT_RPS"); v != "" {
		envUsed = true
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			envCfg.Security.RateLimit.RPS = f
		}
	}
	if v := os.Getenv("ELELE_RATE_LIMIT_BURST"); v != "" {
		envUsed = true
		if n, err := strconv.Atoi(v); err == nil {
			envCfg.Security.RateLimit.Burst = n
		}
	}
	if v := os.Getenv("ELELE_ASSIST_API_KEY"); v != "" {
		envUsed = true
		envCfg.Assist.APIKey = v
	}
	if v := os.Getenv("ELELE_ASSIST_MODEL"); v != "" {
		envUsed = true
		envCfg.Assist.Model = v
	}
	if v := os.Getenv("ELELE_LOG_LEVEL"); v != "" {
		envUsed = true
		envCfg.Logging.Level = v
	}
	return envCfg, envUsed
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// LoadEffective merges config file, env and flags into the effective
// configuration. Precedence per value: flags > env > file > defaults.
func LoadEffective(flags Flags) (EffectiveConfigResult, error) {
	fileCfg, filePresent, err := ParseConfigFile(flags)
	if err != nil {
		return EffectiveConfigResult{}, err
	}
	envCfg, envUsed := ParseConfigEnvs()

	cfg := fileCfg
	mergeEnv(cfg, envCfg)
	cfg.Storage.Keys = cfg.Storage.Keys.OrDefaults()

	// addr: flag > env/file (cfg.Addr()) > flag default
	addr := flags.Addr
	source := "flags"
	if !flags.Set["addr"] {
		if a := cfg.Addr(); a != "" {
			addr = a
			source = "config"
			if envUsed && fileCfg.Addr() == "" {
				source = "env"
			}
		}
	}
	// db path: flag > config/env > flag default
	dbPath := flags.DB
	if !flags.Set["db"] {
		if p := cfg.Storage.DBPath; p != "" {
			dbPath = p
		}
	}
	if flags.Set["ephemeral"] {
		cfg.Storage.Ephemeral = flags.Ephemeral
	}
	if !filePresent && !envUsed {
		source = "flags"
	}

	return EffectiveConfigResult{
		Config:  cfg,
		Addr:    addr,
		DBPath:  dbPath,
		Source:  source,
		EnvUsed: envUsed,
	}, nil
}

// mergeEnv overlays non-zero env values onto dst.
func mergeEnv(dst, env *Config) {
	if env.Server.Address != "" {
		dst.Server.Address = env.Server.Address
	}
	if env.Server.Port != 0 {
		dst.Server.Port = env.Server.Port
	}
	if env.Storage.DBPath != "" {
		dst.Storage.DBPath = env.Storage.DBPath
	}
	if env.Storage.Ephemeral {
		dst.Storage.Ephemeral = true
	}
	if env.Feed.SeedDemo {
		dst.Feed.SeedDemo = true
	}
	if len(env.Security.CORS.AllowedOrigins) > 0 {
		dst.Security.CORS.AllowedOrigins = env.Security.CORS.AllowedOrigins
	}
	if env.Security.RateLimit.RPS > 0 {
		dst.Security.RateLimit.RPS = env.Security.RateLimit.RPS
	}
	if env.Security.RateLimit.Burst > 0 {
		dst.Security.RateLimit.Burst = env.Security.RateLimit.Burst
	}
	if env.Assist.APIKey != "" {
		dst.Assist.APIKey = env.Assist.APIKey
	}
	if env.Assist.Model != "" {
		dst.Assist.Model = env.Assist.Model
	}
	if env.Logging.Level != "" {
		dst.Logging.Level = env.Logging.Level
	}
}
