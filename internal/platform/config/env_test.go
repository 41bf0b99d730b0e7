package config

import (
	"bytes"
	"strings"
	"testing"
)

type envTestConfig struct {
	Turns int `env:"BRINKMANSHIP_TEST_TURNS" envDefault:"3"`
}

type prefixedTestConfig struct {
	Locale string `env:"TEST_LOCALE" envDefault:"en-US"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Turns != 3 {
		t.Fatalf("turns = %d, want 3", cfg.Turns)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("BRINKMANSHIP_TEST_TURNS", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParsePrefixedEnvReadsPrefixedVariable(t *testing.T) {
	t.Setenv("BRINKMANSHIP_TEST_LOCALE", "es-ES")

	var cfg prefixedTestConfig
	if err := ParsePrefixedEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Locale != "es-ES" {
		t.Fatalf("locale = %q, want %q", cfg.Locale, "es-ES")
	}
}

func TestExitfWritesAndExits(t *testing.T) {
	var buf bytes.Buffer
	var code int
	prevWriter, prevExit := exitWriter, exitFunc
	exitWriter = &buf
	exitFunc = func(c int) { code = c }
	t.Cleanup(func() {
		exitWriter = prevWriter
		exitFunc = prevExit
	})

	Exitf("fatal: %s", "journal corrupted")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if got := buf.String(); got != "fatal: journal corrupted\n" {
		t.Fatalf("output = %q", got)
	}
}
