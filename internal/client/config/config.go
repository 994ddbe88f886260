package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/alcancesol/internal/common"
	"github.com/dmitrijs2005/alcancesol/internal/logging"
)

// Config holds runtime settings for the Alcance Sol CLI.
//
// Fields:
//   - DatabasePath: SQLite file of the structured store (":memory:" allowed).
//   - SupportNumber: destination of submitted reports and of the contact link.
//   - MapsAPIKey: Google Static Maps key; empty disables the map URL.
//   - LocateTimeout: how long the coverage screen waits for a position fix.
//   - Position: optional fixed device position "lat,lng".
//   - LogBackend: logging.BackendSlog, BackendSlogJSON or BackendZap.
type Config struct {
	DatabasePath  string
	SupportNumber string
	MapsAPIKey    string
	LocateTimeout time.Duration
	Position      string
	LogBackend    string
}

// DatabaseFile is the file name of the store inside the user config dir.
const DatabaseFile = "alcance-sol-db.sqlite"

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = defaultDatabasePath()
	c.SupportNumber = common.DefaultSupportNumber
	c.MapsAPIKey = ""
	c.LocateTimeout = 10 * time.Second
	c.Position = ""
	c.LogBackend = logging.BackendSlog
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones. args excludes the program
// name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	parseEnv(cfg, os.LookupEnv)

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return DatabaseFile
	}
	return filepath.Join(dir, "alcancesol", DatabaseFile)
}
