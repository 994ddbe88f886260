// Package config loads runtime configuration for the Alcance Sol CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: a ".env" file in the working directory, if present, is
//     loaded with godotenv, then process variables are read (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   path of the local database file
//	-p string   support number receiving reports (digits)
//	-t int      position fix timeout (seconds)
//	-g string   fixed device position "lat,lng"
//
// Environment
//
//	SUPPORT_WA_NUMBER     support number (NEXT_PUBLIC_SUPPORT_WA_NUMBER is accepted too)
//	GOOGLE_MAPS_API_KEY   key for the coverage map; empty disables the map URL
//	ALCANCE_DB_PATH       database file
//	ALCANCE_POSITION      fixed device position
//	LOG_BACKEND           slog, slog-json or zap
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "10s" or
// integer nanoseconds:
//
//	{
//	  "database_path": "/var/lib/alcance/alcance-sol-db.sqlite",
//	  "support_number": "5562993373278",
//	  "maps_api_key": "",
//	  "locate_timeout": "10s",
//	  "position": "-16.6869,-49.2648",
//	  "log_backend": "slog"
//	}
//
// Only keys present in the file override earlier values.
package config
