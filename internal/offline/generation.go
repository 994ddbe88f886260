package offline

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	DefaultPrefix  = "alcance-sol-"
	DefaultVersion = "v1"
)

// DefaultManifest is the application shell cached at install time.
var DefaultManifest = []string{
	"/",
	"/login",
	"/home",
	"/report",
	"/history",
	"/contact",
	"/manifest.json",
	"/icons/icon-192x192.png",
	"/icons/icon-512x512.png",
}

// Generation identifies one versioned cache of the shell.
type Generation struct {
	Prefix   string
	Version  string
	Manifest []string
}

// DefaultGeneration returns the stock generation.
func DefaultGeneration() Generation {
	return Generation{
		Prefix:   DefaultPrefix,
		Version:  DefaultVersion,
		Manifest: slices.Clone(DefaultManifest),
	}
}

// CacheName is the bucket of the generation.
func (g Generation) CacheName() string {
	return g.Prefix + g.Version
}

// WithVersion returns a copy of g with another version.
func (g Generation) WithVersion(v string) Generation {
	g.Manifest = slices.Clone(g.Manifest)
	g.Version = v
	return g
}

func (g Generation) Validate() error {
	if g.Prefix == "" {
		return errors.New("cache prefix is empty")
	}
	if g.Version == "" {
		return errors.New("cache version is empty")
	}
	for _, p := range g.Manifest {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("manifest path %q is not absolute", p)
		}
	}
	return nil
}
