package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestDefaultLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		level     Level
		wantError bool
		wantWarn  bool
		wantInfo  bool
		wantDebug bool
	}{
		{LevelError, true, false, false, false},
		{LevelWarn, true, true, false, false},
		{LevelInfo, true, true, true, false},
		{LevelDebug, true, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.level)

			logger.Errorf("error %d", 1)
			logger.Warnf("warn %d", 2)
			logger.Infof("info %d", 3)
			logger.Debugf("debug %d", 4)

			output := buf.String()

			if got := strings.Contains(output, "ERROR error 1"); got != tt.wantError {
				t.Errorf("Error logged: got %v, want %v", got, tt.wantError)
			}
			if got := strings.Contains(output, "WARN warn 2"); got != tt.wantWarn {
				t.Errorf("Warn logged: got %v, want %v", got, tt.wantWarn)
			}
			if got := strings.Contains(output, "INFO info 3"); got != tt.wantInfo {
				t.Errorf("Info logged: got %v, want %v", got, tt.wantInfo)
			}
			if got := strings.Contains(output, "DEBUG debug 4"); got != tt.wantDebug {
				t.Errorf("Debug logged: got %v, want %v", got, tt.wantDebug)
			}
		})
	}
}

func TestDefaultLogger_Fatalf(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LevelError)

	var got string
	logger.SetFatalHandler(func(msg string) { got = msg })
	logger.Fatalf("%sinverse of 0x%08x missing", NSPatch, 0)

	if want := "[patch] inverse of 0x00000000 missing"; got != want {
		t.Errorf("handler got %q, want %q", got, want)
	}
	if !strings.Contains(buf.String(), "FATAL [patch]") {
		t.Errorf("fatal message not logged: %q", buf.String())
	}
}

func TestDefaultLogger_FatalfWithoutHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LevelError)
	logger.Fatalf("no handler")
	if !strings.Contains(buf.String(), "FATAL no handler") {
		t.Errorf("fatal message not logged: %q", buf.String())
	}
}

func TestDiscardLogger(t *testing.T) {
	// Just verify it doesn't panic
	Discard.Errorf("error %d", 1)
	Discard.Warnf("warn %d", 1)
	Discard.Infof("info %d", 1)
	Discard.Debugf("debug %d", 1)
	Discard.Fatalf("fatal %d", 1)
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelError, "ERROR"},
		{LevelWarn, "WARN"},
		{LevelInfo, "INFO"},
		{LevelDebug, "DEBUG"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestNamespaceConstants(t *testing.T) {
	namespaces := []string{NSPatch, NSVerify, NSUndo, NSCLI}
	for _, ns := range namespaces {
		if !strings.HasPrefix(ns, "[") || !strings.HasSuffix(ns, "] ") {
			t.Errorf("namespace %q should be in \"[name] \" format", ns)
		}
	}
}

func TestOrDefault(t *testing.T) {
	var typedNil *DefaultLogger
	if !IsNil(typedNil) {
		t.Error("IsNil(typed nil) = false")
	}
	if OrDefault(typedNil) == nil {
		t.Error("OrDefault(typed nil) returned nil")
	}
	fallback, ok := OrDefault(nil).(*DefaultLogger)
	if !ok {
		t.Fatalf("OrDefault(nil) = %T, want *DefaultLogger", OrDefault(nil))
	}
	if fallback.Level() != LevelWarn {
		t.Errorf("OrDefault(nil) level = %v, want %v", fallback.Level(), LevelWarn)
	}
	if got := OrDefault(Discard); got != Discard {
		t.Error("OrDefault replaced a valid logger")
	}
}

func TestLogFormat_Standard(t *testing.T) {
	// TIMESTAMP LEVEL [component] message
	var buf bytes.Buffer
	logger := NewLogger(&buf, LevelInfo)

	logger.Infof("%s%s", NSPatch, "crc forced")

	output := buf.String()
	if !strings.Contains(output, "INFO [patch] crc forced") {
		t.Errorf("unexpected format: %q", output)
	}
	// YYYY/MM/DD HH:MM:SS
	if len(output) < 20 || output[4] != '/' || output[7] != '/' || output[13] != ':' {
		t.Errorf("output should start with a timestamp, got: %q", output)
	}
}
