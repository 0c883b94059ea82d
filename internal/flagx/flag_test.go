package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate values",
			args:    []string{"-d", "x.db", "-l", "debug", "-c", "cfg.json"},
			allowed: []string{"-d", "-l"},
			want:    []string{"-d", "x.db", "-l", "debug"},
		},
		{
			name:    "equals form",
			args:    []string{"-config=cfg.toml", "-d=x.db"},
			allowed: []string{"-config"},
			want:    []string{"-config=cfg.toml"},
		},
		{
			name:    "flag without value followed by flag",
			args:    []string{"-d", "-l", "warn"},
			allowed: []string{"-d"},
			want:    []string{"-d"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-d", "x.db"},
			allowed: nil,
			want:    []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	assert.Equal(t, "a.yaml", ConfigFileFlag([]string{"-d", "x.db", "-c", "a.yaml"}))
	assert.Equal(t, "b.toml", ConfigFileFlag([]string{"-config=b.toml"}))
	assert.Equal(t, "", ConfigFileFlag([]string{"-d", "x.db"}))
}
