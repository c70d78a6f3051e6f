package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
}

func TestNew_JSONConServiceYComponent(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "info", Service: "facturas-api", Output: &buf})

	log.Named("chrono").Info().Int("chrono", 3).Msg("asignado")
	log.Debug().Msg("no debe salir")

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event), "una sola línea JSON")
	assert.Equal(t, "facturas-api", event["service"])
	assert.Equal(t, "chrono", event["component"])
	assert.Equal(t, float64(3), event["chrono"])
	assert.Equal(t, "asignado", event["message"])
}
