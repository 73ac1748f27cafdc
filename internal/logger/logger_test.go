package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		" error ": LevelError,
		"bogus":   LevelInfo,
		"":        LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
	assert.Equal(t, "warn", LevelWarn.String())
}

func TestInitWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, Config{Level: LevelWarn, Format: "json"})

	Info("dropped")
	Warn("kept", "user_id", 7)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.EqualValues(t, 7, rec["user_id"])
}

func TestIntoContext(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, Config{Level: LevelDebug, Format: "json"})

	ctx := IntoContext(context.Background(), "request_id", "abc")
	WithContext(ctx).Info("hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "abc", rec["request_id"])

	assert.Same(t, globalLogger, WithContext(context.Background()))
}
