package logger

import (
	"bytes"
	"errors"
	"os"
	"regexp"
	"strings"
	"testing"
)

func reset() {
	SetVerbose(false)
	SetTimestamps(false)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("test message %s", "arg")

	if got := buf.String(); got != "[DEBUG] test message arg\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("test message")
	Section("Fetch")

	if buf.Len() != 0 {
		t.Errorf("expected no output when verbose is disabled, got %q", buf.String())
	}
}

func TestWarnAndError_AlwaysWritten(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Info("fetched %d pages", 3)
	Warn("record %s skipped", "abc")
	Error("run failed: %v", errors.New("boom"))

	out := buf.String()
	for _, want := range []string{"[INFO] fetched 3 pages", "[WARN] record abc skipped", "[ERROR] run failed: boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output %q", want, out)
		}
	}
}

func TestTimestamps(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetTimestamps(true)

	Info("hello %s", "world")

	pattern := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z \[INFO\] hello world\n$`)
	if !pattern.MatchString(buf.String()) {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestCronLogger(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	var l CronLogger
	l.Info("schedule", "entry", 1, "next")
	l.Error(errors.New("panic"), "recovered", "job", "sync")

	out := buf.String()
	if !strings.Contains(out, "[DEBUG] cron: schedule entry=1 next") {
		t.Errorf("missing info line in %q", out)
	}
	if !strings.Contains(out, "[ERROR] cron: recovered: panic job=sync") {
		t.Errorf("missing error line in %q", out)
	}
}

func TestLevelString(t *testing.T) {
	cases := map[Level]string{
		LevelDebug: "DEBUG",
		LevelInfo:  "INFO",
		LevelWarn:  "WARN",
		LevelError: "ERROR",
		Level(9):   "LEVEL(9)",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", int(level), got, want)
		}
	}
}

func TestSection_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Fetch")

	if got := buf.String(); got != "\n=== Fetch ===\n" {
		t.Errorf("unexpected output %q", got)
	}
}
