package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/joho/godotenv"
)

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

// parseEnv overlays cfg with the set, non-empty variables.
func parseEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(name)
		return v, ok && v != ""
	}

	if v, ok := get("SHELLCACHE_LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}
	if v, ok := get("SHELLCACHE_ORIGIN_URL"); ok {
		cfg.OriginURL = v
	}
	if v, ok := get("SHELLCACHE_CACHE_DB"); ok {
		cfg.CacheDBPath = v
	}
	if v, ok := get("SHELLCACHE_CACHE_VERSION"); ok {
		cfg.CacheVersion = v
	}
	if v, ok := get("SHELLCACHE_SKIP_WAITING"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SHELLCACHE_SKIP_WAITING: %w", err)
		}
		cfg.SkipWaiting = b
	}
	if v, ok := get("LOG_BACKEND"); ok {
		cfg.LogBackend = v
	}
	return nil
}
