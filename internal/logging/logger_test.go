package logging

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/muurk/haierac/internal/protocol"
)

func observe(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	prev := logger
	SetLogger(zap.New(core))
	t.Cleanup(func() { logger = prev })
	return logs
}

func TestInitialize_SilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")

	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be a no-op when no level is configured")
	}
}

func TestInitialize_FromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")
	t.Cleanup(func() { logger = nil })

	if err := InitializeFromEnv(); err != nil {
		t.Fatalf("InitializeFromEnv() error: %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !GetLogger().Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled at warn level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogDecodeFailure(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)

	data := []byte{0x00, 0x00, 0x28}
	_, err := protocol.DecodeResponse(data)
	LogDecodeFailure("stdin", data, err)

	entries := logs.FilterMessage("Frame decode failed").All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["kind"] != "Format Error" {
		t.Errorf("kind = %v, want Format Error", fields["kind"])
	}
	if fields["field"] != "envelope magic" {
		t.Errorf("field = %v, want envelope magic", fields["field"])
	}
	if fields["offset"] != int64(2) {
		t.Errorf("offset = %v, want 2", fields["offset"])
	}
	if fields["recovery"] != "resync" {
		t.Errorf("recovery = %v, want resync", fields["recovery"])
	}
	if fields["hex"] != "000028" {
		t.Errorf("hex = %v, want 000028", fields["hex"])
	}
}

func TestLogDecodeFailure_ForeignError(t *testing.T) {
	logs := observe(t, zapcore.WarnLevel)

	LogDecodeFailure("stdin", nil, errors.New("read failed"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if _, ok := entries[0].ContextMap()["kind"]; ok {
		t.Error("foreign errors should not carry a kind field")
	}
}

func TestLogRawFrame_DebugOnly(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)

	LogRawFrame("stdin", []byte{0x27, 0x15})
	if logs.Len() != 0 {
		t.Errorf("raw frames should only be logged at debug level, got %d entries", logs.Len())
	}
}

func TestDumps(t *testing.T) {
	if got := asciiDump([]byte("00\x0007")); got != "00.07" {
		t.Errorf("asciiDump() = %q", got)
	}

	long := make([]byte, maxDumpBytes+10)
	if got := hexDump(long); !strings.HasSuffix(got, "...") || len(got) != maxDumpBytes*2+3 {
		t.Errorf("hexDump() should truncate to %d bytes, got %d chars", maxDumpBytes, len(got))
	}
	if got := hexDump(nil); got != "" {
		t.Errorf("hexDump(nil) = %q", got)
	}
}
