package logging_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mhtools/mhwork/internal/config"
	"github.com/mhtools/mhwork/internal/logging"
)

func newFileLogger(t *testing.T, opts logging.Options) (func() string, *logging.Options) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logs", "mhwork.log")
	opts.OutputPaths = []string{path}
	return func() string {
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read log file: %v", err)
		}
		return string(content)
	}, &opts
}

func TestConsoleLogger(t *testing.T) {
	read, opts := newFileLogger(t, logging.Options{Level: "info", Format: "console"})

	logger, err := logging.New(*opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("hidden")
	logger.With("file", "batch.wkl").WithGroup("job").Info("decoded worklist", "count", 3, "name", "QC low")

	content := read()
	if strings.Contains(content, "hidden") {
		t.Fatalf("debug record written at info level: %q", content)
	}
	for _, want := range []string{"INFO ", "decoded worklist", "file=batch.wkl", "job.count=3", `job.name="QC low"`} {
		if !strings.Contains(content, want) {
			t.Errorf("expected %q in %q", want, content)
		}
	}
	if strings.Contains(content, "\x1b[") {
		t.Errorf("file output should not be colored: %q", content)
	}
}

func TestConsoleLoggerForcedColor(t *testing.T) {
	color := true
	read, opts := newFileLogger(t, logging.Options{Level: "warn", Color: &color})

	logger, err := logging.New(*opts)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("skipped")
	logger.Warn("careful", logging.Error(errors.New("boom")))

	content := read()
	if strings.Contains(content, "skipped") {
		t.Fatalf("info record written at warn level: %q", content)
	}
	if !strings.Contains(content, "\x1b[33mWARN ") || !strings.Contains(content, "boom") {
		t.Errorf("unexpected output: %q", content)
	}
}

func TestJSONLogger(t *testing.T) {
	read, opts := newFileLogger(t, logging.Options{Level: "debug", Format: "JSON"})

	logger, err := logging.New(*opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("stored worklist", "id", 7)

	var record map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(read())), &record); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if record["level"] != "debug" || record["msg"] != "stored worklist" || record["id"] != float64(7) {
		t.Errorf("unexpected record: %v", record)
	}
	if ts, _ := record["ts"].(string); !strings.HasSuffix(ts, "Z") {
		t.Errorf("expected UTC timestamp, got %v", record["ts"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()
	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger instance")
	}

	if _, err := logging.NewFromConfig(nil); err != nil {
		t.Fatalf("NewFromConfig(nil) returned error: %v", err)
	}
}

func TestNewNop(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("dropped")
	if logger.Enabled(context.Background(), 100) {
		t.Fatal("nop logger should be disabled")
	}
}
