package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/zlog"
)

func TestMain(m *testing.M) {
	zlog.Init()
	os.Exit(m.Run())
}

func TestInit_ConsoleLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "warn", Output: &buf, NoColor: true})

	zlog.Logger.Info().Msg("hidden")
	zlog.Logger.Warn().Str("file", "a.jpg").Msg("skipped")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "skipped")
	assert.Contains(t, out, "file=a.jpg")
}

func TestInit_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datemark.log")

	var buf bytes.Buffer
	Init(Options{Level: "debug", File: path, Output: &buf, NoColor: true})

	zlog.Logger.Debug().Str("k", "v").Msg("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	line := strings.TrimSpace(string(data))
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &m))
	assert.Equal(t, "hello", m["message"])
	assert.Equal(t, "v", m["k"])
	assert.Equal(t, "debug", m["level"])
	assert.Contains(t, m, "time")
	assert.Contains(t, buf.String(), "hello")
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" INFO ":  zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	} {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}
