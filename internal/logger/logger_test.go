package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_InvalidLevel(t *testing.T) {
	err := Init(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestWithComponent_TagsEntries(t *testing.T) {
	require.NoError(t, Init(Config{Level: "debug"}))

	var buf bytes.Buffer
	SetOutput(&buf)

	l := WithComponent("spring")
	l.Info().Msg("settled")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "spring", entry["component"])
	assert.Equal(t, "settled", entry["message"])
	assert.Equal(t, zerolog.DebugLevel, GetLogger().GetLevel())
}
