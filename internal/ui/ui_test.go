package ui

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerStreamSwap(t *testing.T) {
	var out, alt, errOut bytes.Buffer
	logger := New(&out, &errOut, ColorNever, false)

	logger.Msg("first")
	logger.SetStream(&alt)
	logger.Infof("second %d", 2)
	logger.SetStream(nil)
	logger.Okf("third")

	if got := out.String(); got != "first\nthird\n" {
		t.Fatalf("stdout = %q, want %q", got, "first\nthird\n")
	}
	if got := alt.String(); got != "second 2\n" {
		t.Fatalf("alt stream = %q, want %q", got, "second 2\n")
	}
	if logger.Stream() != &out {
		t.Fatalf("Stream() did not revert to stdout")
	}
}

func TestLoggerErrorfWritesErrStream(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := New(&out, &errOut, ColorNever, false)

	logger.Errorf("boom: %v\n", "bad")

	if out.Len() != 0 {
		t.Fatalf("unexpected stdout output: %q", out.String())
	}
	if got := errOut.String(); got != "boom: bad\n" {
		t.Fatalf("stderr = %q", got)
	}
}

func TestLoggerStylingDisabled(t *testing.T) {
	logger := New(&bytes.Buffer{}, &bytes.Buffer{}, ColorAlways, true)
	if got := logger.Green("x"); got != "x" {
		t.Fatalf("Green() = %q, want plain text", got)
	}
	if got := logger.Bold("x"); got != "x" {
		t.Fatalf("Bold() = %q, want plain text", got)
	}
}

func TestPrettyPath(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}

	got := PrettyPath(filepath.Join(cwd, "node_modules", "pkg", "package.json"))
	want := "." + string(filepath.Separator) + filepath.Join("node_modules", "pkg", "package.json")
	if got != want {
		t.Fatalf("PrettyPath() = %q, want %q", got, want)
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" || strings.HasPrefix(cwd, home) {
		return
	}
	got = PrettyPath(filepath.Join(home, "proj"))
	if !strings.HasPrefix(got, "~") {
		t.Fatalf("PrettyPath() = %q, want ~ prefix", got)
	}
}

func TestNormalizeColorMode(t *testing.T) {
	cases := map[string]ColorMode{
		"always": ColorAlways,
		" NEVER": ColorNever,
		"":       ColorAuto,
		"bogus":  ColorAuto,
	}
	for input, want := range cases {
		if got := NormalizeColorMode(input); got != want {
			t.Fatalf("NormalizeColorMode(%q) = %q, want %q", input, got, want)
		}
	}
}
