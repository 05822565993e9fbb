package logger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/FarmHub-api/pkg/logger"
)

func TestNop_NoEscribeNiFalla(t *testing.T) {
	l := logger.Nop()
	assert.NotPanics(t, func() {
		l.Info().Str("k", "v").Msg("descartado")
		l.WithComponent("finance").Error().Msg("descartado")
	})
}

func TestWithComponent_LoggerNilDevuelveNop(t *testing.T) {
	var l *logger.Logger
	assert.NotNil(t, l.WithComponent("http"))
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":  zerolog.DebugLevel,
		" WARN ": zerolog.WarnLevel,
		"error":  zerolog.ErrorLevel,
		"":       zerolog.InfoLevel,
		"ruido":  zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, logger.ParseLevel(in), "nivel %q", in)
	}
}

func TestNew_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "info", Service: "farmhub", Output: &buf})

	l.Debug().Msg("filtrado por nivel")
	l.WithComponent("finance").Info().Str("number", "INV-2024-001").Msg("factura creada")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var ev map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &ev))
	assert.Equal(t, "farmhub", ev["service"])
	assert.Equal(t, "finance", ev["component"])
	assert.Equal(t, "INV-2024-001", ev["number"])
	assert.Equal(t, "factura creada", ev["message"])
}
