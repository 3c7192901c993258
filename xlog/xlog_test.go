package xlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xrbtree/lib/infra"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	res := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		res = append(res, m)
	}
	return res
}

func TestParseLogLevel(t *testing.T) {
	testcases := []struct {
		in       string
		expected logLevel
	}{
		{"info", LogLevelInfo},
		{"WARN", LogLevelWarn},
		{" error ", LogLevelError},
		{"debug", LogLevelDebug},
		{"", LogLevelDebug},
		{"verbose", LogLevelDebug},
	}
	for _, tc := range testcases {
		require.Equal(t, tc.expected, ParseLogLevel(tc.in), tc.in)
	}
}

func TestParseLogEncoder(t *testing.T) {
	enc, ok := ParseLogEncoder("JSON")
	require.True(t, ok)
	require.Equal(t, JSON, enc)
	enc, ok = ParseLogEncoder("text")
	require.True(t, ok)
	require.Equal(t, PlainText, enc)
	_, ok = ParseLogEncoder("yaml")
	require.False(t, ok)
}

func TestXLogger_Levels(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewXLogger(
		WithXLoggerWriter(buf),
		WithXLoggerLevel(LogLevelInfo),
		WithXLoggerEncoder(JSON),
	)
	require.Equal(t, "info", logger.Level())

	logger.Debug("hidden")
	logger.Info("node count", zap.Int("count", 3))
	logger.Warn("warned")
	logger.Error(errors.New("boom"), "failed")
	logger.Error(nil, "failed without cause")
	require.NoError(t, logger.Sync())

	lines := decodeLines(t, buf)
	require.Len(t, lines, 4)
	require.Equal(t, "INFO", lines[0]["lvl"])
	require.Equal(t, "node count", lines[0]["msg"])
	require.EqualValues(t, 3, lines[0]["count"])
	require.Contains(t, lines[0]["callAt"], "xlog_test.go")
	require.Equal(t, "WARN", lines[1]["lvl"])
	require.Equal(t, "boom", lines[2]["error"])
	_, ok := lines[3]["error"]
	require.False(t, ok)

	buf.Reset()
	logger.IncreaseLogLevel(zapcore.DebugLevel)
	logger.Debug("visible")
	require.Len(t, decodeLines(t, buf), 1)

	buf.Reset()
	logger.IncreaseLogLevel(zapcore.ErrorLevel)
	logger.Info("hidden")
	logger.Logf(zapcore.ErrorLevel, "%d nodes", 7)
	lines = decodeLines(t, buf)
	require.Len(t, lines, 1)
	require.Equal(t, "7 nodes", lines[0]["msg"])
}

func TestXLogger_ErrorStack(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewXLogger(WithXLoggerWriter(buf), WithXLoggerLevel(LogLevelDebug))

	logger.ErrorStack(infra.NewErrorStack("broken tree"), "validate")
	logger.ErrorStackf(errors.New("plain"), "validate %s", "again")
	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	require.Equal(t, "broken tree", lines[0]["error"])
	frames, ok := lines[0]["errorStack"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, frames)
	require.Equal(t, "validate again", lines[1]["msg"])
	require.Equal(t, "plain", lines[1]["error"])
}

func TestXLogger_ContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewXLogger(
		WithXLoggerWriter(buf),
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerContextFieldExtract("file", "input"),
		WithXLoggerContextFieldExtract("worker"),
		WithXLoggerContextFieldExtract("secret", ContextKeyMapToOmitempty),
	)
	ctx := context.WithValue(context.Background(), ContextKey("file"), "keys.txt")
	ctx = context.WithValue(ctx, ContextKey("secret"), "hidden")

	logger.InfoContext(ctx, "rendered")
	logger.ErrorContext(ctx, errors.New("boom"), "failed")
	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	require.Equal(t, "keys.txt", lines[0]["input"])
	require.Equal(t, "nil", lines[0]["worker"])
	_, ok := lines[0]["secret"]
	require.False(t, ok)
	require.Equal(t, "boom", lines[1]["error"])
}

func TestXLogger_PlainTextTee(t *testing.T) {
	first, second := &bytes.Buffer{}, &bytes.Buffer{}
	logger := NewXLogger(
		WithXLoggerWriter(first),
		WithXLoggerWriter(second),
		WithXLoggerEncoder(PlainText),
		WithXLoggerLevel(LogLevelInfo),
	)
	_, isTee := logger.core().(xLogMultiCore)
	require.True(t, isTee)

	logger.Info("node count=3, max depth=1")
	require.NoError(t, logger.Sync())
	require.Contains(t, first.String(), "node count=3, max depth=1")
	require.Contains(t, first.String(), "INFO")
	require.Equal(t, first.String(), second.String())
}

func TestXLogger_BadOptions(t *testing.T) {
	require.Panics(t, func() {
		NewXLogger(WithXLoggerEncoder(_encMax))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriter(nil))
	})
}

func TestAntsXLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewXLogger(WithXLoggerWriter(buf), WithXLoggerLevel(LogLevelDebug))
	antsLogger := NewAntsXLogger(logger)

	pool, err := ants.NewPool(1, ants.WithLogger(antsLogger))
	require.NoError(t, err)
	defer pool.Release()

	antsLogger.Printf("worker %d exits", 1)
	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	require.Equal(t, "Ants", lines[0]["component"])
	require.Equal(t, "ERROR", lines[0]["lvl"])
	require.Equal(t, "worker 1 exits", lines[0]["msg"])

	var nilLogger *AntsXLogger
	nilLogger.Printf("ignored")
}
