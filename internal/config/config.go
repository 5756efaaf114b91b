package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

const (
	EnvPrefix   = "HARVESTER_"
	DefaultTask = "process_inspire"
)

// Duration is a time.Duration written as "30s" or "24h" in config files.
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", string(b))
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	BaseURL  string         `toml:"base_url" validate:"required,url"`
	Token    string         `toml:"token"`
	RunsFile string         `toml:"runs_file"`
	HTTP     HTTPConfig     `toml:"http"`
	Cache    CacheConfig    `toml:"cache"`
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
}

type HTTPConfig struct {
	Timeout       Duration `toml:"timeout"`
	Verbose       bool     `toml:"verbose"`
	CacheResponse bool     `toml:"cache_responses"`
	CacheTTL      Duration `toml:"cache_ttl"`
}

type CacheConfig struct {
	Dir    string   `toml:"dir"`
	SizeMB int      `toml:"size_mb" validate:"gte=1"`
	TTL    Duration `toml:"ttl"`
}

type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error disabled"`
	// File is where the terminal client logs. Empty discards.
	File string `toml:"file"`
}

type ServerConfig struct {
	Addr      string   `toml:"addr" validate:"required"`
	Enabled   bool     `toml:"enabled"`
	JWTSecret string   `toml:"jwt_secret"`
	Timeout   Duration `toml:"timeout"`
}

type DatabaseConfig struct {
	URL   string `toml:"url"`
	Task  string `toml:"task" validate:"required"`
	Limit int    `toml:"limit" validate:"gte=1,lte=1000"`
}

func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:  Duration(30 * time.Second),
			CacheTTL: Duration(time.Minute),
		},
		Cache: CacheConfig{
			Dir:    filepath.Join(os.TempDir(), "harvester-reports", "exports"),
			SizeMB: 200,
			TTL:    Duration(24 * time.Hour),
		},
		Log: LogConfig{Level: "info"},
		Server: ServerConfig{
			Addr:    ":8080",
			Enabled: true,
			Timeout: Duration(60 * time.Second),
		},
		Database: DatabaseConfig{
			Task:  DefaultTask,
			Limit: 20,
		},
	}
}

// DefaultPath is ~/.config/harvester-reports/config.toml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "harvester-reports", "config.toml")
}

// Load reads defaults, then path (when set), then HARVESTER_* variables.
// A missing file at the default location is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrapf(err, "parse config %s", path)
			}
		case os.IsNotExist(err) && !explicit:
		default:
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	str := map[string]*string{
		"BASE_URL":     &cfg.BaseURL,
		"TOKEN":        &cfg.Token,
		"RUNS_FILE":    &cfg.RunsFile,
		"CACHE_DIR":    &cfg.Cache.Dir,
		"LOG_LEVEL":    &cfg.Log.Level,
		"LOG_FILE":     &cfg.Log.File,
		"SERVER_ADDR":  &cfg.Server.Addr,
		"JWT_SECRET":   &cfg.Server.JWTSecret,
		"DATABASE_URL": &cfg.Database.URL,
		"TASK":         &cfg.Database.Task,
	}
	for name, dst := range str {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"CACHE_SIZE_MB": &cfg.Cache.SizeMB,
		"RUNS_LIMIT":    &cfg.Database.Limit,
	}
	for name, dst := range ints {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return errors.Wrapf(err, "%s%s", EnvPrefix, name)
			}
			*dst = n
		}
	}

	durs := map[string]*Duration{
		"CACHE_TTL":    &cfg.Cache.TTL,
		"HTTP_TIMEOUT": &cfg.HTTP.Timeout,
	}
	for name, dst := range durs {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			if err := dst.UnmarshalText([]byte(v)); err != nil {
				return errors.Wrapf(err, "%s%s", EnvPrefix, name)
			}
		}
	}

	bools := map[string]*bool{
		"REPORTS_ENABLED": &cfg.Server.Enabled,
		"HTTP_VERBOSE":    &cfg.HTTP.Verbose,
	}
	for name, dst := range bools {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return errors.Wrapf(err, "%s%s", EnvPrefix, name)
			}
			*dst = b
		}
	}
	return nil
}

var validate = validator.New()

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return errors.Errorf("invalid config: %s failed %q", f.Namespace(), f.Tag())
		}
		return errors.Wrap(err, "invalid config")
	}
	return nil
}
