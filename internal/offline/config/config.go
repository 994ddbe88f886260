package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/alcancesol/internal/logging"
	"github.com/dmitrijs2005/alcancesol/internal/offline"
)

// Config holds runtime settings for shellcache.
//
// Fields:
//   - ListenAddr: bind address of the HTTP front.
//   - OriginURL: absolute URL of the server hosting the shell.
//   - CacheDBPath: SQLite file holding the cache buckets.
//   - CacheVersion: version of the generation registered at start.
//   - FetchTimeout: bound of every network fetch.
//   - SkipWaiting: activate a new generation without waiting for clients.
//   - LogBackend: logging backend name.
type Config struct {
	ListenAddr   string
	OriginURL    string
	CacheDBPath  string
	CacheVersion string
	FetchTimeout time.Duration
	SkipWaiting  bool
	LogBackend   string
}

// CacheFile is the file name of the cache database inside the user cache dir.
const CacheFile = "offline-cache.sqlite"

func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8080"
	c.OriginURL = "http://127.0.0.1:3000"
	c.CacheDBPath = defaultCachePath()
	c.CacheVersion = offline.DefaultVersion
	c.FetchTimeout = offline.DefaultFetchTimeout
	c.SkipWaiting = true
	c.LogBackend = logging.BackendZap
}

// Origin parses OriginURL and requires it to be absolute.
func (c *Config) Origin() (*url.URL, error) {
	u, err := url.Parse(c.OriginURL)
	if err != nil {
		return nil, fmt.Errorf("origin url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("origin url %q must be absolute", c.OriginURL)
	}
	return u, nil
}

// LoadConfig applies defaults, environment, JSON and flags in that order.
// args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return CacheFile
	}
	return filepath.Join(dir, "alcancesol", CacheFile)
}
