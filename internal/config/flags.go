package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/nudger/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. os.Args is
// filtered with flagx.FilterArgs so -c/-config does not trip the parser.
//
// Supported flags:
//
//	-d  SQLite database DSN
//	-s  session stamp signing secret
//	-t  session lifetime in whole hours
//	-p  default persona
//	-l  log level (debug|info|warn|error)
//	-f  log format (text|json)
//
// Flags that are not passed leave the current value alone, so a
// sub-hour TTL from a config file survives.
//
// Panics on malformed values.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-s", "-t", "-p", "-l", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "SQLite database DSN")
	fs.StringVar(&cfg.SessionSecret, "s", cfg.SessionSecret, "session stamp signing secret")
	ttlHours := fs.Int("t", int(cfg.SessionTTL.Hours()), "session lifetime (in hours)")
	fs.StringVar(&cfg.DefaultPersona, "p", cfg.DefaultPersona, "default persona")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format (text|json)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.SessionTTL = time.Duration(*ttlHours) * time.Hour
		}
	})
}
