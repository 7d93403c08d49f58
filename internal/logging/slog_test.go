package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"phone-cover-backend/internal/logging"
)

func newTestLogger(t *testing.T) (*logging.SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return logging.NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG", "msg=dbg", "a=1",
		"level=INFO", "msg=inf", "b=2",
		"level=WARN", "msg=wrn", "c=3",
		"level=ERROR", "msg=err", "d=4",
	} {
		assert.Contains(t, out, want)
	}
}

func TestSlogLogger_With(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("model", "iphone15", "request_id", "abc").Info(context.Background(), "hello", "k", "v")

	out := buf.String()
	for _, want := range []string{"msg=hello", "model=iphone15", "request_id=abc", "k=v"} {
		assert.Contains(t, out, want)
	}
}

func TestDiscard(t *testing.T) {
	log := logging.Discard()
	assert.NotPanics(t, func() {
		log.Info(context.TODO(), "nothing")
		log.With("a", 1).Error(context.TODO(), "still nothing")
	})
}

func TestNewWithOptions_LevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWithOptions(logging.Options{JSON: true, Level: slog.LevelWarn, Out: &buf})
	ctx := context.Background()

	log.Info(ctx, "dropped")
	log.With("cover_model", "Pixel 8").Warn(ctx, "kept", "file", "pixel.png")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "Pixel 8", entry["cover_model"])
	assert.Equal(t, "pixel.png", entry["file"])
}

func TestSetLevel_AppliesToChildren(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWithOptions(logging.Options{Level: slog.LevelError, Out: &buf})
	child := log.With("request_id", "abc")
	ctx := context.Background()

	child.Info(ctx, "before")
	assert.Empty(t, buf.String())

	log.SetLevel(slog.LevelDebug)
	child.Debug(ctx, "after")
	assert.Contains(t, buf.String(), "msg=after")
	assert.Contains(t, buf.String(), "request_id=abc")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"Warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := logging.ParseLevel(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
