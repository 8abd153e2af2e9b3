package main

import (
	"bytes"
	"flag"
	"path/filepath"
	"strings"
	"testing"
)

func TestPrintUsageListsCommands(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf)

	for name, cmd := range commandTable {
		if !strings.Contains(buf.String(), name) || !strings.Contains(buf.String(), cmd.summary) {
			t.Errorf("usage misses %s: %s", name, buf.String())
		}
	}
	// Sorted by name.
	if strings.Index(buf.String(), "export") > strings.Index(buf.String(), "view") {
		t.Errorf("commands not sorted:\n%s", buf.String())
	}
}

func TestRunCommandRequiresTrace(t *testing.T) {
	var ran bool
	cmd := command{
		summary: "test",
		setup: func(fs *flag.FlagSet) func(string) error {
			fs.SetOutput(&bytes.Buffer{})
			return func(string) error {
				ran = true
				return nil
			}
		},
	}

	if err := runCommand("test", cmd, nil); err != errNoTrace {
		t.Errorf("expected errNoTrace, got %v", err)
	}
	if ran {
		t.Error("command ran without a trace file")
	}

	if err := runCommand("test", cmd, []string{"trace.slog"}); err != nil {
		t.Errorf("runCommand failed: %v", err)
	}
	if !ran {
		t.Error("command did not run")
	}
}

func TestFilterRequiresOutput(t *testing.T) {
	err := runCommand("filter", commandTable["filter"], []string{filepath.Join(t.TempDir(), "in.slog")})
	if err == nil || !strings.Contains(err.Error(), "-o") {
		t.Errorf("expected missing -o error, got %v", err)
	}
}

func TestLowerNames(t *testing.T) {
	if got := strings.Join(sourceNames, ","); got != "session,adapter" {
		t.Errorf("sourceNames = %s", got)
	}
	if got := strings.Join(categoryNames, ","); got != "lifecycle,state,binding,usecase,error" {
		t.Errorf("categoryNames = %s", got)
	}
}
