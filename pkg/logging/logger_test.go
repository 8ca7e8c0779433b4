package logging

import (
	"os"
	"strings"
	"testing"
)

// TestMain redirects the log directory to a scratch location so test runs
// never touch the real ~/.surf/logs. It must run before any logger is
// created because the directory is resolved once per process.
func TestMain(m *testing.M) {
	scratch, err := os.MkdirTemp("", "surf-logging-test")
	if err != nil {
		panic(err)
	}
	baseDirFunc = func() (string, error) { return scratch, nil }

	code := m.Run()
	os.RemoveAll(scratch)
	os.Exit(code)
}

func TestNewLoggerWritesToRunFile(t *testing.T) {
	logger, err := NewLogger("test-component")
	if err != nil {
		t.Fatalf("NewLogger returned error: %v", err)
	}
	defer logger.Close()

	logger.Infof("hello %s", "world")
	logger.Errorf("boom: %d", 42)

	if logger.LogPath() == "" {
		t.Fatal("expected a log path in file mode")
	}

	data, err := os.ReadFile(logger.LogPath())
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	content := string(data)
	for _, want := range []string{"[test-component]", "[INFO] hello world", "[ERROR] boom: 42"} {
		if !strings.Contains(content, want) {
			t.Errorf("log file missing %q\ngot: %s", want, content)
		}
	}
}

func TestRunIDSharedAcrossLoggers(t *testing.T) {
	a, _ := NewLogger("component-a")
	defer a.Close()
	b, _ := NewLogger("component-b")
	defer b.Close()

	if a.RunID() == "" {
		t.Fatal("run ID should not be empty")
	}
	if a.RunID() != b.RunID() {
		t.Errorf("loggers in one process should share a run ID: %s != %s", a.RunID(), b.RunID())
	}
	if a.LogPath() != b.LogPath() {
		t.Errorf("loggers in one process should share a log file: %s != %s", a.LogPath(), b.LogPath())
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	logger, err := NewLogger("close-test")
	if err != nil {
		t.Fatalf("NewLogger returned error: %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Errorf("first Close returned error: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close returned error: %v", err)
	}
}
