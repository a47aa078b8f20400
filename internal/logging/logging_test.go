package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level        string
		debugEnabled bool
		infoEnabled  bool
	}{
		{"", false, true},
		{"debug", true, true},
		{"info", false, true},
		{"error", false, false},
		{"bogus", false, true},
	}

	for _, tc := range tests {
		t.Run("level_"+tc.level, func(t *testing.T) {
			logger := New(tc.level, "text")
			if logger == nil {
				t.Fatal("expected non-nil logger")
			}
			ctx := context.Background()
			if got := logger.Enabled(ctx, slog.LevelDebug); got != tc.debugEnabled {
				t.Errorf("debug enabled = %v, want %v", got, tc.debugEnabled)
			}
			if got := logger.Enabled(ctx, slog.LevelInfo); got != tc.infoEnabled {
				t.Errorf("info enabled = %v, want %v", got, tc.infoEnabled)
			}
		})
	}
}

func TestNewJSONFormat(t *testing.T) {
	if logger := New("info", "json"); logger == nil {
		t.Fatal("expected non-nil logger for JSON format")
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := context.Background()

	if id := RequestID(ctx); id != "" {
		t.Errorf("expected empty request ID, got %q", id)
	}

	ctx = WithRequestID(ctx, "a1b2c3d4")
	if id := RequestID(ctx); id != "a1b2c3d4" {
		t.Errorf("expected a1b2c3d4, got %q", id)
	}

	ctx = WithRequestID(ctx, "e5f6a7b8")
	if id := RequestID(ctx); id != "e5f6a7b8" {
		t.Errorf("later request ID should win, got %q", id)
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected default logger")
	}

	custom := New("debug", "json")
	ctx := WithLogger(context.Background(), custom)
	if FromContext(ctx) != custom {
		t.Error("expected custom logger from context")
	}
}

func TestLCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithLogger(context.Background(), logger)
	ctx = WithRequestID(ctx, "a1b2c3d4")

	L(ctx).Info("assessment started")

	if out := buf.String(); !strings.Contains(out, "request_id=a1b2c3d4") {
		t.Errorf("log line missing request_id: %q", out)
	}
}

func TestWithTokenAttachesIdentity(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := WithLogger(context.Background(), logger)

	WithToken(ctx, "eth", "0xdac17f958d2ee523a2206206994597c13d831ec7").Info("fetching facts")

	out := buf.String()
	if !strings.Contains(out, "chain=eth") {
		t.Errorf("log line missing chain: %q", out)
	}
	if !strings.Contains(out, "address=0xdac17f958d2ee523a2206206994597c13d831ec7") {
		t.Errorf("log line missing address: %q", out)
	}
}
