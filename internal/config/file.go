package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dmitrijs2005/nudger/internal/flagx"
	"github.com/dmitrijs2005/nudger/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the DTO decoded from a config file. Pointer fields tell
// "absent" apart from "empty".
type FileConfig struct {
	DatabaseDSN    *string         `json:"database_dsn" toml:"database_dsn" yaml:"database_dsn"`
	SessionSecret  *string         `json:"session_secret" toml:"session_secret" yaml:"session_secret"`
	SessionTTL     *timex.Duration `json:"session_ttl" toml:"session_ttl" yaml:"session_ttl"`
	DefaultPersona *string         `json:"default_persona" toml:"default_persona" yaml:"default_persona"`
	LogLevel       *string         `json:"log_level" toml:"log_level" yaml:"log_level"`
	LogFormat      *string         `json:"log_format" toml:"log_format" yaml:"log_format"`
}

// parseFile overlays cfg with the file named by -c/-config. Panics on read or
// decode errors, and on unknown extensions.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc, err := decodeFile(filepath.Ext(path), data)
	if err != nil {
		panic(err)
	}
	fc.apply(cfg)
}

func decodeFile(ext string, data []byte) (*FileConfig, error) {
	var fc FileConfig

	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(data, &fc); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q", ext)
	}
	return &fc, nil
}

func (fc *FileConfig) apply(cfg *Config) {
	if fc.DatabaseDSN != nil {
		cfg.DatabaseDSN = *fc.DatabaseDSN
	}
	if fc.SessionSecret != nil {
		cfg.SessionSecret = *fc.SessionSecret
	}
	if fc.SessionTTL != nil {
		cfg.SessionTTL = fc.SessionTTL.Duration
	}
	if fc.DefaultPersona != nil {
		cfg.DefaultPersona = *fc.DefaultPersona
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.LogFormat != nil {
		cfg.LogFormat = *fc.LogFormat
	}
}
