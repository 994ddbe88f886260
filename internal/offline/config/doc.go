// Package config loads runtime configuration for the shellcache process.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: ".env" in the working directory via godotenv, then the
//     process variables (see parseEnv).
//  3. Optional JSON file selected with -c or -config (see parseJson).
//  4. Command-line flags (see parseFlags).
//
// Supported flags
//
//	-l string   listen address of the HTTP front
//	-o string   origin URL of the application shell
//	-d string   cache database file (":memory:" keeps it in memory)
//	-v string   cache version; the bucket is "alcance-sol-<version>"
//	-t int      per-request fetch timeout (seconds)
//
// Environment
//
//	SHELLCACHE_LISTEN_ADDR, SHELLCACHE_ORIGIN_URL, SHELLCACHE_CACHE_DB,
//	SHELLCACHE_CACHE_VERSION, SHELLCACHE_SKIP_WAITING, LOG_BACKEND
//
// # JSON schema
//
//	{
//	  "listen_addr": ":8080",
//	  "origin_url": "http://127.0.0.1:3000",
//	  "cache_db_path": "/var/cache/alcance/offline-cache.sqlite",
//	  "cache_version": "v1",
//	  "fetch_timeout": "15s",
//	  "skip_waiting": true,
//	  "log_backend": "zap"
//	}
package config
