package logger

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"homework_status_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
)

func TestNewWritesToRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "homework_bot.log")
	log := New(&config.AppConfig{LogLevel: "debug", Environment: "production", LogFile: path})

	if log.GetLevel() != logrus.DebugLevel {
		t.Fatalf("level = %s, want debug", log.GetLevel())
	}
	if _, ok := log.Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("formatter = %T, want JSON in production", log.Formatter)
	}

	log.WithField("component", "test").Info("hello file")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello file") {
		t.Fatalf("log file %q does not contain the message", data)
	}
	if !strings.Contains(string(data), "logger_test.go") {
		t.Fatalf("log file %q does not report the caller", data)
	}
}

func TestNewInvalidLevelFallsBackToInfo(t *testing.T) {
	log := New(&config.AppConfig{LogLevel: "loud", Environment: "development"})
	if log.GetLevel() != logrus.InfoLevel {
		t.Fatalf("level = %s, want info", log.GetLevel())
	}
	if _, ok := log.Formatter.(*logrus.TextFormatter); !ok {
		t.Fatalf("formatter = %T, want text in development", log.Formatter)
	}
}

func TestShortCaller(t *testing.T) {
	t.Parallel()
	fn, file := shortCaller(&runtime.Frame{
		Function: "homework_status_bot/internal/app.(*StatusPoller).RunCycle",
		File:     "/src/internal/app/status_poller.go",
		Line:     120,
	})
	if fn != "[app.(*StatusPoller).RunCycle]" {
		t.Fatalf("function = %q", fn)
	}
	if file != "[status_poller.go]:[120]" {
		t.Fatalf("file = %q", file)
	}
}
