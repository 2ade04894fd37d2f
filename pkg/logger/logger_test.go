package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONLogger(t *testing.T, buf *bytes.Buffer) *Logger {
	t.Helper()
	gin.SetMode(gin.ReleaseMode)
	t.Cleanup(func() { gin.SetMode(gin.TestMode) })
	t.Setenv("LOG_LEVEL", "debug")
	return NewWithWriter(buf)
}

func TestLogHoldPlacedFields(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(t, &buf)

	until := time.Date(2026, 3, 1, 20, 15, 0, 0, time.UTC)
	l.LogHoldPlaced(context.Background(), "guest:abc", 42, 7, until)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Hold Placed", entry["msg"])
	assert.Equal(t, "guest:abc", entry["holder"])
	assert.EqualValues(t, 42, entry["seat_id"])
	assert.EqualValues(t, 7, entry["showtime_id"])
}

func TestWithErrorAddsField(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(t, &buf)

	l.WithError(errors.New("boom")).Info("failed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "boom", entry["error"])
}

func TestGetLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", getLogLevel("debug").String())
	assert.Equal(t, "WARN", getLogLevel("warning").String())
	assert.Equal(t, "INFO", getLogLevel("unknown").String())
}
