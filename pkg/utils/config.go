package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the whole novelhub configuration. Precedence, lowest first:
// Default(), YAML file, environment (a .env file feeds the environment),
// CLI flags (applied by the caller).
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Data     DataConfig     `yaml:"data"`
	Database DatabaseConfig `yaml:"database"`
	Scraper  ScraperConfig  `yaml:"scraper"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	StaticDir      string        `yaml:"static_dir"`
	TrustedProxies []string      `yaml:"trusted_proxies"`
	LiveReload     bool          `yaml:"live_reload"`
	ShutdownGrace  time.Duration `yaml:"shutdown_grace"`
}

// DataConfig names the collection each view reads. A location is a file
// path, an http(s) URL, or "sqlite:" for the catalog database.
type DataConfig struct {
	Dir          string `yaml:"dir"`
	ListSource   string `yaml:"list_source"`
	LinkedSource string `yaml:"linked_source"`
	DetailSource string `yaml:"detail_source"`
	MediaDir     string `yaml:"media_dir"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type ScraperConfig struct {
	WebsiteBaseURL string        `yaml:"website_base_url"`
	NovelBaseURL   string        `yaml:"novel_base_url"`
	Output         string        `yaml:"output"`
	MediaDir       string        `yaml:"media_dir"`
	Workers        int           `yaml:"workers"`
	PauseMin       time.Duration `yaml:"pause_min"`
	PauseMax       time.Duration `yaml:"pause_max"`
	RetryMax       int           `yaml:"retry_max"`
	Timeout        time.Duration `yaml:"timeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console | json
	File   string `yaml:"file"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			StaticDir:      "static",
			TrustedProxies: []string{"127.0.0.1"},
			LiveReload:     true,
			ShutdownGrace:  10 * time.Second,
		},
		Data: DataConfig{
			Dir:          "data",
			ListSource:   "data/data.json",
			LinkedSource: "data/novels_data.json",
			DetailSource: "data/data.json",
			MediaDir:     "static/media",
		},
		Database: DatabaseConfig{
			Path: "data/novels.db",
		},
		Scraper: ScraperConfig{
			WebsiteBaseURL: "https://animestuff.me/",
			NovelBaseURL:   "https://animestuff.me/docs/assets/html/",
			Output:         "data/novels_data.json",
			MediaDir:       "static/media",
			Workers:        4,
			PauseMin:       1 * time.Second,
			PauseMax:       2 * time.Second,
			RetryMax:       2,
			Timeout:        20 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration. An empty path falls back to
// NOVELHUB_CONFIG; a missing file at an explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("NOVELHUB_CONFIG")
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := LoadDotEnv(".env"); err != nil {
		return Config{}, err
	}
	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv copies variables from a .env file into the process environment
// without overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

// ApplyEnv overlays NOVELHUB_* variables onto cfg.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("NOVELHUB_ADDR", &cfg.Server.Addr)
	str("NOVELHUB_STATIC_DIR", &cfg.Server.StaticDir)
	str("NOVELHUB_DATA_DIR", &cfg.Data.Dir)
	str("NOVELHUB_LIST_SOURCE", &cfg.Data.ListSource)
	str("NOVELHUB_LINKED_SOURCE", &cfg.Data.LinkedSource)
	str("NOVELHUB_DETAIL_SOURCE", &cfg.Data.DetailSource)
	str("NOVELHUB_MEDIA_DIR", &cfg.Data.MediaDir)
	str("NOVELHUB_DB_PATH", &cfg.Database.Path)
	str("NOVELHUB_WEBSITE_URL", &cfg.Scraper.WebsiteBaseURL)
	str("NOVELHUB_NOVEL_BASE_URL", &cfg.Scraper.NovelBaseURL)
	str("NOVELHUB_SCRAPER_OUTPUT", &cfg.Scraper.Output)
	str("NOVELHUB_LOG_LEVEL", &cfg.Logging.Level)
	str("NOVELHUB_LOG_FORMAT", &cfg.Logging.Format)
	str("NOVELHUB_LOG_FILE", &cfg.Logging.File)

	if v, ok := lookup("NOVELHUB_LIVE_RELOAD"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("NOVELHUB_LIVE_RELOAD: %w", err)
		}
		cfg.Server.LiveReload = b
	}
	if v, ok := lookup("NOVELHUB_SCRAPER_WORKERS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("NOVELHUB_SCRAPER_WORKERS: want a positive integer, got %q", v)
		}
		cfg.Scraper.Workers = n
	}
	return nil
}
