package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestOrNop(t *testing.T) {
	assert.IsType(t, NopLogger{}, OrNop(nil))

	z := NewZeroLogger(zerolog.Nop(), "test")
	assert.Equal(t, z, OrNop(z))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("chatty"))
}

func TestZeroLogger_WritesComponentAndLevel(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf).Level(zerolog.InfoLevel)
	log := NewZeroLogger(base, "engine")

	log.Debugf("hidden %d", 1)
	log.Warnf("profile %s excluded", "growth")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"component":"engine"`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, "profile growth excluded")
}
