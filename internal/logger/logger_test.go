package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestJSONOutput(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo)
	log.Info("hello", "key", "value")

	output := buf.String()
	if !strings.Contains(output, "hello") {
		t.Fatalf("expected 'hello' in output, got: %s", output)
	}
	if !strings.Contains(output, `"key":"value"`) {
		t.Fatalf("expected key=value in JSON output, got: %s", output)
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := Text(&buf, slog.LevelWarn)
	log.Info("hidden")
	log.Debug("also hidden")
	if buf.Len() > 0 {
		t.Fatalf("expected no output below warn, got: %s", buf.String())
	}

	log.Warn("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("expected warn message, got: %s", buf.String())
	}
}

func TestPrettyOutput(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := Pretty(&buf, slog.LevelDebug)
	log.Debug("starting up", "port", 8080)

	output := buf.String()
	if !strings.Contains(output, "starting up") {
		t.Fatalf("expected message in output, got: %s", output)
	}
	if !strings.Contains(output, "port=8080") {
		t.Fatalf("expected port attr in output, got: %s", output)
	}
}

func TestWithAndGroups(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo).With("component", "api")
	log.Info("child message")

	if !strings.Contains(buf.String(), `"component":"api"`) {
		t.Fatalf("expected component attr, got: %s", buf.String())
	}

	buf.Reset()
	grouped := slog.New(NewPrettyHandler(&buf, nil)).WithGroup("srv")
	grouped.Info("grouped", "key", "val")
	if !strings.Contains(buf.String(), "srv.key=val") {
		t.Fatalf("expected group-prefixed attr, got: %s", buf.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo)

	ctx := WithContext(context.Background(), log)
	FromContext(ctx).Info("roundtrip")
	if !strings.Contains(buf.String(), "roundtrip") {
		t.Fatalf("expected message via context logger, got: %s", buf.String())
	}

	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext without logger returned nil")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for input, expected := range tests {
		if got := ParseLevel(input); got != expected {
			t.Errorf("ParseLevel(%q): expected %v, got %v", input, expected, got)
		}
	}
}

func TestPrettyQuoting(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, nil))
	log.Info("test", "a", "hello world", "b", "plain")

	output := buf.String()
	if !strings.Contains(output, `a="hello world"`) {
		t.Fatalf("expected quoted value with spaces, got: %s", output)
	}
	if !strings.Contains(output, "b=plain") || strings.Contains(output, `b="plain"`) {
		t.Fatalf("expected unquoted simple value, got: %s", output)
	}
}
