package app

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestRegisterFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)

	expectedFlags := []string{
		"config", "root", "extensions", "exclude-dirs", "exclude", "respect-gitignore",
		"max-file-size", "workers", "output-dir", "analysis-file", "suggestions-file",
		"index-dir", "lock-timeout", "complexity-threshold", "test-coverage-target", "doc-coverage-target",
		"max-dependencies", "min-duplicate-length", "max-scaffold-functions",
		"per-file-checks", "index", "max-results", "log-level", "log-format",
		"transport", "repo", "repo-cache-dir",
	}

	for _, name := range expectedFlags {
		if flags.Lookup(name) == nil {
			t.Errorf("Expected flag %q to be registered", name)
		}
	}
}

func TestRegisterFlags_Shorthand(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)

	shorthandFlags := map[string]string{
		"config":     "c",
		"root":       "r",
		"extensions": "e",
		"exclude":    "x",
		"workers":    "w",
		"output-dir": "o",
		"log-level":  "l",
		"transport":  "t",
	}

	for name, shorthand := range shorthandFlags {
		flag := flags.Lookup(name)
		if flag == nil {
			t.Errorf("Flag %q not found", name)
			continue
		}
		if flag.Shorthand != shorthand {
			t.Errorf("Flag %q expected shorthand %q, got %q", name, shorthand, flag.Shorthand)
		}
	}
}

func TestRegisterFlags_SetValues(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)

	err := flags.Parse([]string{
		"--root", "/src",
		"--exclude", "dist/**,*.min.js",
		"--workers", "4",
		"--complexity-threshold", "75.5",
		"--per-file-checks=false",
	})
	if err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	root, _ := flags.GetString("root")
	if root != "/src" {
		t.Errorf("Expected root '/src', got '%s'", root)
	}

	exclude, _ := flags.GetStringSlice("exclude")
	if len(exclude) != 2 || exclude[1] != "*.min.js" {
		t.Errorf("Expected two exclude patterns, got %v", exclude)
	}

	workers, _ := flags.GetInt("workers")
	if workers != 4 {
		t.Errorf("Expected workers 4, got %d", workers)
	}

	threshold, _ := flags.GetFloat64("complexity-threshold")
	if threshold != 75.5 {
		t.Errorf("Expected complexity-threshold 75.5, got %v", threshold)
	}

	perFile, _ := flags.GetBool("per-file-checks")
	if perFile {
		t.Error("Expected per-file-checks to be false")
	}
}

func TestRegisterSearchFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterSearchFlags(flags)

	if err := flags.Parse([]string{"--type", "security", "--severity", "high", "--file", "a.js", "-n", "3"}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}
	for name, want := range map[string]string{"type": "security", "severity": "high", "file": "a.js", "limit": "3"} {
		if got := flags.Lookup(name).Value.String(); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestRegisterScaffoldFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterScaffoldFlags(flags)

	if err := flags.Parse([]string{"-m", "auth"}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}
	if module, _ := flags.GetString("module"); module != "auth" {
		t.Errorf("module = %q, want auth", module)
	}
}
