package stdlogger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restopos/restopos/internal/logger/adapter/stdlogger"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	previous := log.Logger
	level := zerolog.GlobalLevel()

	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	t.Cleanup(func() {
		log.Logger = previous
		zerolog.SetGlobalLevel(level)
	})

	return &buf
}

func TestAdapter(t *testing.T) {
	buf := capture(t)
	l := stdlogger.New("db")

	l.Debugf("stdlogger %s", "debug")
	l.Infof("stdlogger %s", "info")
	l.Warningf("stdlogger %s", "warning")
	l.Errorf("stdlogger %s", "error")
	l.Printf("hidden below info")
	l.WithLevel(zerolog.WarnLevel).Printf("\n%s slow query ", "shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	type entry struct {
		Level     string `json:"level"`
		Component string `json:"component"`
		Message   string `json:"message"`
	}

	want := []entry{
		{"info", "db", "stdlogger info"},
		{"warn", "db", "stdlogger warning"},
		{"error", "db", "stdlogger error"},
		{"warn", "db", "shown slow query"},
	}

	for i, line := range lines {
		var got entry
		require.NoError(t, json.Unmarshal([]byte(line), &got))
		assert.Equal(t, want[i], got)
	}
}
