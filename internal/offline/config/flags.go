package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/alcancesol/internal/flagx"
)

// parseFlags overlays cfg with -l, -o, -d, -v and -t (seconds).
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-l", "-o", "-d", "-v", "-t"})

	fs := flag.NewFlagSet("shellcache", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ListenAddr, "l", cfg.ListenAddr, "listen address")
	fs.StringVar(&cfg.OriginURL, "o", cfg.OriginURL, "origin URL")
	fs.StringVar(&cfg.CacheDBPath, "d", cfg.CacheDBPath, "cache database file")
	fs.StringVar(&cfg.CacheVersion, "v", cfg.CacheVersion, "cache version")
	fetchTimeout := fs.Int("t", int(cfg.FetchTimeout.Seconds()), "fetch timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.FetchTimeout = time.Duration(*fetchTimeout) * time.Second
	return nil
}
