package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccollicutt/logsoul/internal/cli/commands"
)

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()

	if root.Use != "logsoul" {
		t.Errorf("Unexpected Use: %s", root.Use)
	}

	for _, name := range []string{"search", "validate", "detect", "version"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Missing subcommand: %s", name)
		}
	}

	for _, flag := range []string{"config", "verbose", "no-color"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("Missing persistent flag: %s", flag)
		}
	}

	if !root.SilenceUsage || !root.SilenceErrors {
		t.Error("Root command should silence usage and errors")
	}
}

func TestRun_ExitCodes(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		code   int
		stderr string
	}{
		{name: "version", args: []string{"version"}, code: commands.ExitOK},
		{name: "unknown command", args: []string{"nope"}, code: commands.ExitError, stderr: "Error: unknown command"},
		{
			name:   "missing config",
			args:   []string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "search"},
			code:   commands.ExitError,
			stderr: "Error: loading config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewRootCommand()
			var stdout, stderr bytes.Buffer
			root.SetOut(&stdout)
			root.SetErr(&stderr)

			if code := run(root, tt.args); code != tt.code {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.code, stderr.String())
			}
			if !strings.HasPrefix(stderr.String(), tt.stderr) {
				t.Errorf("stderr = %q, want prefix %q", stderr.String(), tt.stderr)
			}
		})
	}
}
