package telemetry

import (
	"context"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level   string
		enabled zapcore.Level
		dropped zapcore.Level
	}{
		{"debug", zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"info", zapcore.InfoLevel, zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel, zapcore.InfoLevel},
		{"ERROR", zapcore.ErrorLevel, zapcore.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := NewLogger(tt.level, false)
			if err != nil {
				t.Fatalf("NewLogger(%q) error = %v", tt.level, err)
			}
			core := logger.Core()
			if !core.Enabled(tt.enabled) {
				t.Errorf("level %v should be enabled", tt.enabled)
			}
			if core.Enabled(tt.dropped) {
				t.Errorf("level %v should be dropped", tt.dropped)
			}
		})
	}
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	if _, err := NewLogger("loud", false); err == nil {
		t.Error("NewLogger(loud) error = nil, want error")
	}
}

func TestTracersWithoutSetup(t *testing.T) {
	ctx := context.Background()

	_, span := Tracer("test").Start(ctx, "test.span")
	span.End()
	if span.SpanContext().IsValid() {
		t.Error("span from the default provider should not be recorded")
	}

	_, span = NoopTracer().Start(ctx, "test.noop")
	span.End()
	if span.IsRecording() {
		t.Error("no-op span should not record")
	}
}
