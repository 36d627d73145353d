package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in    string
		want  zapcore.Level
		valid bool
	}{
		{"debug", zapcore.DebugLevel, true},
		{" INFO ", zapcore.InfoLevel, true},
		{"", zapcore.InfoLevel, true},
		{"warning", zapcore.WarnLevel, true},
		{"error", zapcore.ErrorLevel, true},
		{"verbose", zapcore.InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLevel(tt.in)
			if got != tt.want || ok != tt.valid {
				t.Errorf("ParseLevel(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.valid)
			}
		})
	}
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	if FromContext(context.Background()) != Logger() {
		t.Error("FromContext without a stored logger should return the global logger")
	}
}

func TestWithNameAndKV(t *testing.T) {
	var buf bytes.Buffer
	l := New(zapcore.DebugLevel, &buf)

	ctx := ToContext(context.Background(), l)
	ctx = WithName(ctx, "assembler")
	ctx = WithKV(ctx, "export_dir", "/tmp/out")

	InfoKV(ctx, "writing manifest", "dependencies", 3)
	DebugKV(ctx, "debug line")

	out := buf.String()
	for _, want := range []string{"assembler", "writing manifest", "export_dir", "/tmp/out", "dependencies", "debug line"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(zapcore.WarnLevel, &buf)
	ctx := ToContext(context.Background(), l)

	InfoKV(ctx, "hidden")
	WarnKV(ctx, "shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn message should be written")
	}
}
