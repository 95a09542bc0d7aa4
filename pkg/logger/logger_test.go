package logger

import (
	"context"
	"errors"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}

	// Re-initialization must be safe.
	if err := Init(); err != nil {
		t.Fatalf("failed to re-initialize logger: %v", err)
	}
}

func TestLoggerBasic(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	l := Get()
	l.Info(ctx, "test message", String("k", "v"), Int("n", 3), Bool("ok", true))
	l.Warn(ctx, "warn message", Strings("names", []string{"a", "b"}))
	l.Error(ctx, "error message", Error(errors.New("boom")))
	l.Debug(ctx, "debug message", Float64("x", 1.5), Any("m", map[string]int{"a": 1}))
}

func TestLoggerNamed(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	named := Named("test")
	if named == nil {
		t.Fatal("named logger is nil")
	}
	named.Info(context.Background(), "test message")
}

func TestSetLevelString(t *testing.T) {
	defer func() { _ = SetLevelString("info") }()

	cases := map[string]string{
		"debug":   "debug",
		"INFO":    "info",
		" warn ":  "warn",
		"warning": "warn",
		"error":   "error",
		"":        "info",
	}
	for in, want := range cases {
		if err := SetLevelString(in); err != nil {
			t.Fatalf("SetLevelString(%q) returned error: %v", in, err)
		}
		if got := Level(); got != want {
			t.Errorf("SetLevelString(%q): level = %q, want %q", in, got, want)
		}
	}

	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNop(t *testing.T) {
	l := NewNop()
	l.Info(context.Background(), "discarded")
	if l.Named("x") == nil {
		t.Fatal("named nop logger is nil")
	}
}
