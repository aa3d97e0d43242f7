package logging

import (
	"encoding/json"
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStumpyLogger_LogWritesStructuredJSON(t *testing.T) {
	var lines [][]byte
	writer := logiface.WriterFunc[*stumpy.Event](func(e *stumpy.Event) error {
		lines = append(lines, e.Bytes())
		return nil
	})

	underlying := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithTimeField(``)),
		stumpy.L.WithWriter(writer),
	)
	l := &stumpyLogger{min: LevelInfo, logger: underlying}

	l.Log(LogEntry{
		Level:    LevelInfo,
		Category: "ptimer",
		Message:  "timer fired",
		Fields:   map[string]any{"timer_id": 7},
	})

	require.Len(t, lines, 1)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &decoded))
	assert.Equal(t, "ptimer", decoded["category"])
	assert.Equal(t, "timer fired", decoded["msg"])
	assert.Equal(t, float64(7), decoded["timer_id"])
}

func TestStumpyLogger_LogIncludesErrorField(t *testing.T) {
	var lines [][]byte
	writer := logiface.WriterFunc[*stumpy.Event](func(e *stumpy.Event) error {
		lines = append(lines, e.Bytes())
		return nil
	})

	underlying := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithTimeField(``)),
		stumpy.L.WithWriter(writer),
	)
	l := &stumpyLogger{min: LevelError, logger: underlying}

	l.Log(LogEntry{Level: LevelError, Category: "process", Message: "dispatch failed", Err: assert.AnError})

	require.Len(t, lines, 1)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &decoded))
	assert.Equal(t, assert.AnError.Error(), decoded["err"])
}

func TestStumpyLogger_IsEnabledRespectsMinLevel(t *testing.T) {
	l := NewStumpyLogger(LevelWarn)
	assert.False(t, l.IsEnabled(LevelDebug))
	assert.False(t, l.IsEnabled(LevelInfo))
	assert.True(t, l.IsEnabled(LevelWarn))
	assert.True(t, l.IsEnabled(LevelError))
}

func TestStumpyLogger_LogBelowMinLevelNeverReachesTheWriter(t *testing.T) {
	called := false
	writer := logiface.WriterFunc[*stumpy.Event](func(e *stumpy.Event) error {
		called = true
		return nil
	})
	underlying := stumpy.L.New(stumpy.L.WithStumpy(), stumpy.L.WithWriter(writer))
	l := &stumpyLogger{min: LevelError, logger: underlying}

	l.Log(LogEntry{Level: LevelInfo, Message: "ignored"})

	assert.False(t, called)
}
