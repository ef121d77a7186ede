package common

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	logger.Warn.Println("Test Warn")
	logger.Info.Println("Test Info")
	logger.Err.Println("Test Err")
	out := buf.String()
	for _, prefix := range []string{"[ Warn ]", "[ Info ]", "[ Error ]"} {
		if !strings.Contains(out, prefix) {
			t.Fatalf("Missing %q prefix in logger output: %q", prefix, out)
		}
	}
}

func TestSetOutput(t *testing.T) {
	logger := NewDiscardLogger()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.Info.Println("redirected")
	if !strings.Contains(buf.String(), "redirected") {
		t.Fatal("Loggers must write to the new output")
	}
}

func TestDiscardLogger(t *testing.T) {
	logger := NewDiscardLogger()
	logger.Err.Println("nothing")
	if logger.Warn == nil || logger.Info == nil || logger.Err == nil {
		t.Fatal("Discard logger must hold all the loggers")
	}
}
