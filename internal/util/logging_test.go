package util

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLookupLevel(t *testing.T) {
	if lvl, ok := LookupLevel(" Info "); !ok || lvl != slog.LevelInfo {
		t.Fatalf("LookupLevel(info) = %v, %v", lvl, ok)
	}
	if lvl, ok := LookupLevel("debug"); !ok || lvl != slog.LevelDebug {
		t.Fatalf("LookupLevel(debug) = %v, %v", lvl, ok)
	}
	if _, ok := LookupLevel("loud"); ok {
		t.Fatalf("expected loud to be rejected")
	}
}

func TestInitLoggerToWritesJSON(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := InitLoggerTo(&buf, "warn")
	logger.Info("dropped")
	logger.Warn("kept", "collection", "users")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "kept" || entry["collection"] != "users" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestLoggerFromContextFallsBackToDefault(t *testing.T) {
	if LoggerFromContext(context.Background()) != slog.Default() {
		t.Fatalf("expected default logger")
	}
	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := ContextWithLogger(context.Background(), custom)
	if LoggerFromContext(ctx) != custom {
		t.Fatalf("expected stored logger")
	}
}
