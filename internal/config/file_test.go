package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func Test_parseFile_Formats(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	files := map[string]string{
		"cfg.json": `{"database_dsn":"j.db","session_ttl":"12h","default_persona":"NaggingPartner"}`,
		"cfg.toml": "database_dsn = \"j.db\"\nsession_ttl = \"12h\"\ndefault_persona = \"NaggingPartner\"\n",
		"cfg.yml":  "database_dsn: j.db\nsession_ttl: 12h\ndefault_persona: NaggingPartner\n",
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			os.Args = []string{"testbin", "-config", writeTemp(t, name, content)}

			cfg := &Config{}
			cfg.LoadDefaults()
			parseFile(cfg)

			assert.Equal(t, "j.db", cfg.DatabaseDSN)
			assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
			assert.Equal(t, "NaggingPartner", cfg.DefaultPersona)
			// untouched keys keep defaults
			assert.Equal(t, "warn", cfg.LogLevel)
		})
	}
}

func Test_parseFile_JSONNanoseconds(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-c", writeTemp(t, "n.json", `{"session_ttl": 3600000000000}`)}

	cfg := &Config{}
	parseFile(cfg)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
}

func Test_parseFile_NoFlagNoChanges(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := &Config{DatabaseDSN: "keep.db"}
	parseFile(cfg)
	assert.Equal(t, "keep.db", cfg.DatabaseDSN)
}

func Test_parseFile_Panics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	cases := map[string]string{
		"bad json":     writeTemp(t, "bad.json", `{ this is not valid json`),
		"bad duration": writeTemp(t, "bad.toml", `session_ttl = "forever"`),
		"unknown ext":  writeTemp(t, "cfg.ini", `a=b`),
		"missing file": filepath.Join(t.TempDir(), "absent.json"),
	}
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			os.Args = []string{"testbin", "-c", path}
			require.Panics(t, func() { parseFile(&Config{}) })
		})
	}
}
