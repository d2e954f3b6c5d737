package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestWithAttrsReplacesSameKey(t *testing.T) {
	ctx := WithAttrs(context.Background(), slog.String("component", "a"), slog.String("event_slug", "devfest"))
	ctx = WithAttrs(ctx, slog.String("component", "b"))

	attrs := Attrs(ctx)
	if len(attrs) != 2 {
		t.Fatalf("Attrs() len = %d", len(attrs))
	}
	if attrs[0].Key != "component" || attrs[0].Value.String() != "b" {
		t.Fatalf("Attrs()[0] = %v", attrs[0])
	}
}

func TestLoggerWritesContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), New(&buf, "json", "debug"))
	ctx = WithAttrs(ctx, slog.String("proposal_id", "p-1"))

	Info(ctx, "proposal submitted", slog.Int("number", 3))

	out := buf.String()
	for _, want := range []string{`"proposal_id":"p-1"`, `"number":3`, `"msg":"proposal submitted"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output %q missing %q", out, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), New(&buf, "text", "warn"))

	Info(ctx, "hidden")
	Warn(ctx, "shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("log output = %q", buf.String())
	}
}

func TestWithSpanWithoutSpanIsNoop(t *testing.T) {
	ctx := context.Background()
	if got := WithSpan(ctx); len(Attrs(got)) != 0 {
		t.Fatalf("WithSpan() attrs = %v", Attrs(got))
	}
}
