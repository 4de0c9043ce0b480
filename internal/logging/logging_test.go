package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewSilentWithoutDebug(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Stderr: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.WithField("url", "https://caniuse.com").Debug("request")
	log.Info("info")
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn, got %q", buf.String())
	}

	log.Warn("careful")
	if !strings.Contains(buf.String(), "careful") {
		t.Errorf("expected warn output, got %q", buf.String())
	}
}

func TestNewDebugWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Debug: true, Stderr: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if log.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %v", log.GetLevel())
	}
	log.WithFields(logrus.Fields{"url": "https://caniuse.com/x", "status": 200}).Debug("response")

	out := buf.String()
	for _, want := range []string{"response", "url=", "status=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output %q", want, out)
		}
	}
}

func TestNewFileOutput(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "caniuse.log")
	log, err := New(Options{Debug: true, File: path, Stderr: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.WithField("term", "websocket").Debug("search")

	if buf.Len() != 0 {
		t.Errorf("expected nothing on stderr when logging to file, got %q", buf.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), `"term":"websocket"`) {
		t.Errorf("expected JSON log line, got %q", data)
	}
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Error("dropped")
	if log.IsLevelEnabled(logrus.ErrorLevel) {
		t.Error("expected discard logger to have error level disabled")
	}
}
