package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// loadDotEnv copies the variables of a .env file into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

// parseEnv overlays cfg with the environment variables that are set and
// non-empty. lookup is os.LookupEnv outside tests.
func parseEnv(cfg *Config, lookup func(string) (string, bool)) {
	get := func(names ...string) (string, bool) {
		for _, name := range names {
			if v, ok := lookup(name); ok && v != "" {
				return v, true
			}
		}
		return "", false
	}

	if v, ok := get("SUPPORT_WA_NUMBER", "NEXT_PUBLIC_SUPPORT_WA_NUMBER"); ok {
		cfg.SupportNumber = v
	}
	if v, ok := get("GOOGLE_MAPS_API_KEY"); ok {
		cfg.MapsAPIKey = v
	}
	if v, ok := get("ALCANCE_DB_PATH"); ok {
		cfg.DatabasePath = v
	}
	if v, ok := get("ALCANCE_POSITION"); ok {
		cfg.Position = v
	}
	if v, ok := get("LOG_BACKEND"); ok {
		cfg.LogBackend = v
	}
}
