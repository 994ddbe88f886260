package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/alcancesol/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   database file
//	-p string   support number
//	-t int      position fix timeout in seconds
//	-g string   fixed device position "lat,lng"
//
// args is filtered with flagx.FilterArgs so flags owned by other loaders
// (-c) do not interfere.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-d", "-p", "-t", "-g"})

	fs := flag.NewFlagSet("alcancesol", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "database file")
	fs.StringVar(&cfg.SupportNumber, "p", cfg.SupportNumber, "support number receiving reports")
	fs.StringVar(&cfg.Position, "g", cfg.Position, "fixed device position lat,lng")
	locateTimeout := fs.Int("t", int(cfg.LocateTimeout.Seconds()), "position fix timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.LocateTimeout = time.Duration(*locateTimeout) * time.Second
	return nil
}
