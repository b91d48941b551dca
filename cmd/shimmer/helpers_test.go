package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

const (
	validLine   = "ABPrn01τ300f06→[0.5,0.9,0.1,0.9,0.96]"
	spacedLine  = "ABP rn02→[0.5,0.5,0.5,0.5]"
	outOfRange  = "ABc→[1.5,0,0,0,0.9]"
	plainText   = "just some text"
	verboseCtag = "ctag.status:chunked_wav_infinite_loops_all_engines"
)

// newTestCommand returns a command reading stdin from the given text and
// writing stdout to the returned buffer.
func newTestCommand(stdin string) (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	out := new(bytes.Buffer)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	return cmd, out
}

// useGlobals sets the persistent flags for one test and restores them, and
// the default logger, afterwards.
func useGlobals(t *testing.T, config, grammar string) {
	t.Helper()

	oldCfg, oldVerbose, oldGrammar := cfgFile, verbose, grammarVersion
	oldLogger := slog.Default()
	cfgFile, verbose, grammarVersion = config, false, grammar

	t.Cleanup(func() {
		cfgFile, verbose, grammarVersion = oldCfg, oldVerbose, oldGrammar
		slog.SetDefault(oldLogger)
	})
}

// auditConfig writes a config enabling the audit trail on a fresh SQLite
// database and returns its path.
func auditConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	yaml := fmt.Sprintf(`
audit:
  enabled: true
  backend: sqlite
  sqlite:
    driver: sqlite
    path: %s
  retention:
    days: 0
    prune_schedule: ""
telemetry:
  logging:
    level: error
`, filepath.Join(dir, "audit.db"))

	path := filepath.Join(dir, "shimmer.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func writeInput(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "input.shm")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func outputLines(out *bytes.Buffer) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(out.Bytes()))
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}
