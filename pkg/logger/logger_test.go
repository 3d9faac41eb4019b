package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogger_Level(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewLoggerWithWriter(buf, WARNING)

	l.Infof("hidden %d", 1)
	require.Zero(t, buf.Len())

	l.Warnf("shown %d", 2)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "warn", entry["level"])
	require.Equal(t, "shown 2", entry["message"])
}

func TestLogger_With(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewLoggerWithWriter(buf, DEBUG).With(map[string]any{"customer_id": "c1"})

	l.Debugf("minted")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "c1", entry["customer_id"])
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, DEBUG, ParseLevel("debug"))
	require.Equal(t, ERROR, ParseLevel("ERROR"))
	require.Equal(t, INFO, ParseLevel(""))
}
