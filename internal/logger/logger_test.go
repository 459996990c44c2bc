package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, false)

	log.Debug().Msg("hidden")
	log.Info().Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestVerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, true)

	log.Debug().Msg("details")
	assert.Contains(t, buf.String(), "details")
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, false)

	ctx := WithContext(context.Background(), log)
	fromCtx := FromContext(ctx)
	fromCtx.Info().Msg("through context")
	assert.Contains(t, buf.String(), "through context")
}

func TestFromContextDefault(t *testing.T) {
	log := FromContext(context.Background())
	assert.Equal(t, zerolog.Disabled, log.GetLevel())
}
