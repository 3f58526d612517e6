package ffmt_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/bjaus/ffmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	want := &ffmt.Config{
		Locale:    "de",
		Encoding:  "jsonl",
		LogLevel:  "debug",
		Newline:   true,
		Jobs:      4,
		Templates: map[string]string{"greet": "Hallo %0!"},
	}
	tests := map[string]struct {
		name    string
		content string
	}{
		"yaml": {
			name: "ffmt.yaml",
			content: `locale: de
encoding: jsonl
log_level: debug
newline: true
jobs: 4
templates:
  greet: "Hallo %0!"
`,
		},
		"yml": {
			name: "ffmt.yml",
			content: `locale: de
encoding: jsonl
log_level: debug
newline: true
jobs: 4
templates:
  greet: "Hallo %0!"
`,
		},
		"toml": {
			name: "ffmt.toml",
			content: `locale = "de"
encoding = "jsonl"
log_level = "debug"
newline = true
jobs = 4

[templates]
greet = "Hallo %0!"
`,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg, err := ffmt.LoadConfig(writeConfig(t, tt.name, tt.content))
			require.NoError(t, err)
			assert.Equal(t, want, cfg)
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		name    string
		content string
		target  error
		message string
	}{
		"unknown extension": {
			name:    "ffmt.ini",
			content: "locale=de",
			target:  ffmt.ErrUnsupportedConfig,
		},
		"bad encoding": {
			name:    "ffmt.yaml",
			content: "encoding: xml\n",
			target:  ffmt.ErrUnsupportedEncoding,
		},
		"bad template": {
			name:    "ffmt.toml",
			content: "[templates]\nbroken = \"50%\"\n",
			target:  ffmt.ErrMalformedFormat,
			message: `template "broken"`,
		},
		"negative jobs": {
			name:    "ffmt.yaml",
			content: "jobs: -1\n",
			message: "jobs must not be negative",
		},
		"bad level": {
			name:    "ffmt.yaml",
			content: "log_level: loud\n",
			message: "log_level",
		},
		"bad syntax": {
			name:    "ffmt.toml",
			content: "locale = \n",
			message: "parse ",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg, err := ffmt.LoadConfig(writeConfig(t, tt.name, tt.content))
			require.Error(t, err)
			assert.Nil(t, cfg)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()
	_, err := ffmt.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfigLevel(t *testing.T) {
	t.Parallel()
	level, err := (&ffmt.Config{}).Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)

	level, err = (&ffmt.Config{LogLevel: "WARN"}).Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}

func TestConfigTemplate(t *testing.T) {
	t.Parallel()
	cfg := &ffmt.Config{Templates: map[string]string{"pair": "%0=%1"}}
	tmpl, err := cfg.Template("pair")
	require.NoError(t, err)
	assert.Equal(t, 2, tmpl.Arity())

	_, err = cfg.Template("missing")
	assert.ErrorContains(t, err, `template "missing" not defined`)
}

func TestConfigOptions(t *testing.T) {
	t.Parallel()
	opts, err := (&ffmt.Config{Locale: "de"}).Options(nil)
	require.NoError(t, err)
	f := ffmt.New(opts...)
	assert.False(t, f.LocaleFallback())
	s, err := f.Sprint("%0", ffmt.Grouped(1234))
	require.NoError(t, err)
	assert.Equal(t, "1.234", s)

	_, err = (&ffmt.Config{Locale: "??"}).Options(nil)
	assert.ErrorContains(t, err, `locale "??"`)
}
