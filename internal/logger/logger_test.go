package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestHelpersNilSafe(t *testing.T) {
	Logger = nil
	Debug("x")
	Info("x")
	Warn("x")
	Error("x")
}

func TestInitCreatesLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	if err := Init(Config{LogDir: dir}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { Logger = nil })

	Warn("slot reset", "key", "habits")
	data, err := os.ReadFile(filepath.Join(dir, "streaknest.log"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "slot reset") {
		t.Fatalf("log file missing message: %q", data)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, log.WarnLevel)
	t.Cleanup(func() { Logger = nil })

	Debug("hidden")
	Warn("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatal("debug message should be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Fatal("warn message missing")
	}
}
