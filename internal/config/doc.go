// Package config loads runtime configuration for the nudger CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. The format follows
//     the extension: .json, .toml, .yaml or .yml.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-d string   SQLite database DSN
//	-s string   secret used to sign session stamps
//	-t int      session lifetime in hours
//	-p string   persona preselected during onboarding
//	-l string   log level: debug, info, warn, error
//	-f string   log format: text or json
//
// # File schema
//
// Durations are decoded with timex.Duration, so they may be strings such as
// "672h" or integer nanoseconds (JSON only):
//
//	{
//	  "database_dsn": "nudger.db",
//	  "session_secret": "change-me",
//	  "session_ttl": "672h",
//	  "default_persona": "ColdPrincess",
//	  "log_level": "debug",
//	  "log_format": "json"
//	}
//
// The same keys are used in TOML and YAML files. Keys missing from the file
// keep their earlier value.
package config
