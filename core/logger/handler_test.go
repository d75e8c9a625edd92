package logger

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"log/slog"
)

func newTestLogger(format logFormat) (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	handler := newStructuredHandler(handlerConfig{
		level:    slog.LevelDebug,
		writer:   newLineWriter([]io.Writer{buf}, nil),
		format:   format,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	return slog.New(handler), buf
}

func TestStructuredHandlerKVOrder(t *testing.T) {
	log, buf := newTestLogger(formatKV)
	ctx := WithRID(Background(), "rid-123")
	ctx = WithUpdateMeta(ctx, 42, 7, 9)

	LogEvent(ctx, log.With("component", "app"), slog.LevelInfo, "test.event",
		slog.String("status", "ok"),
		slog.String("cause", "unit"),
	)

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected log line")
	}
	tokens := strings.Split(line, " ")
	expected := []string{"ts=", "level=INFO", "component=app", "event=test.event", "status=ok", "rid=rid-123"}
	if len(tokens) < len(expected) {
		t.Fatalf("unexpected token count: %d (%s)", len(tokens), line)
	}
	for i, prefix := range expected {
		if !strings.HasPrefix(tokens[i], prefix) {
			t.Fatalf("token %d = %s, expected prefix %s", i, tokens[i], prefix)
		}
	}
}

func TestStructuredHandlerJSONOrder(t *testing.T) {
	log, buf := newTestLogger(formatJSON)
	ctx := WithRID(Background(), "rid-json")

	LogEvent(ctx, log.With("component", "bot.dialog"), slog.LevelError, "dialog.failed",
		slog.String("status", "fail"),
		slog.String("err", "boom"),
	)

	line := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(line, "{") {
		t.Fatalf("expected JSON, got %s", line)
	}
	prefixes := []string{`{"ts":`, `"level":"ERROR"`, `"component":"bot.dialog"`, `"event":"dialog.failed"`, `"status":"fail"`, `"rid":"rid-json"`}
	pos := -1
	for _, pref := range prefixes {
		idx := strings.Index(line, pref)
		if idx == -1 || idx < pos {
			t.Fatalf("prefix %s not found in order within %s", pref, line)
		}
		pos = idx
	}
}

func TestStructuredHandlerCompactRID(t *testing.T) {
	log, buf := newTestLogger(formatKV)
	rawRID := "123:456:789"
	ctx := WithRID(Background(), rawRID)

	LogEvent(ctx, log.With("component", "app"), slog.LevelInfo, "rid.test",
		slog.String("status", "ok"),
	)

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, "rid="+CompactRID(rawRID)) {
		t.Fatalf("expected compact rid, got %s", line)
	}
	if strings.Contains(line, "rid_full=") {
		t.Fatalf("rid_full should be omitted in KV output, got %s", line)
	}
}

func TestCompactRIDPassthrough(t *testing.T) {
	for _, rid := range []string{"", "not-a-rid", "1:2", "a:b:c"} {
		if got := CompactRID(rid); got != rid {
			t.Fatalf("CompactRID(%q) = %q, expected passthrough", rid, got)
		}
	}
	if got := CompactRID("35:35:35"); got != "z.z.z" {
		t.Fatalf("CompactRID base36 = %q", got)
	}
}

func TestSanitizeLimit(t *testing.T) {
	in := "hello\x00\x1bworld " + strings.Repeat("x", 100)
	out := SanitizeLimit(in, 16)
	if strings.ContainsAny(out, "\x00\x1b") {
		t.Fatalf("control characters survived: %q", out)
	}
	if got := len([]rune(out)); got != 16 {
		t.Fatalf("expected 16 runes, got %d", got)
	}
}
