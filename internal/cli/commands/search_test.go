package commands

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestRunSearch_Window(t *testing.T) {
	_, configPath := setupSyslog(t)

	args := append([]string{"--config", configPath, "search"}, windowArgs("10:00", "10:30")...)
	stdout, _, err := execute(t, args...)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if ExitCode != ExitOK {
		t.Errorf("ExitCode = %d, want %d", ExitCode, ExitOK)
	}

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d:\n%s", len(lines), stdout)
	}
	if !strings.HasPrefix(lines[0], "10:05:00 | sshd | ") || !strings.HasSuffix(lines[0], "Failed password for root") {
		t.Errorf("line 1 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "10:10:00 | app  | ") || !strings.HasSuffix(lines[1], "request timeout") {
		t.Errorf("line 2 = %q", lines[1])
	}
	for _, excluded := range []string{"early", "late"} {
		if strings.Contains(stdout, excluded) {
			t.Errorf("Output should not contain %q:\n%s", excluded, stdout)
		}
	}
}

func TestRunSearch_Filters(t *testing.T) {
	_, configPath := setupSyslog(t)

	tests := []struct {
		name  string
		extra []string
		want  string
		count int
	}{
		{name: "pattern", extra: []string{"timeout"}, want: "request timeout", count: 1},
		{name: "class", extra: []string{"--class", "^sshd$"}, want: "Failed password", count: 1},
		{name: "fuzzy", extra: []string{"--fuzzy", "fldpass"}, want: "Failed password", count: 1},
		{name: "no match", extra: []string{"nothing-like-this"}, count: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", configPath, "search"}, windowArgs("10:00", "10:30")...)
			args = append(args, tt.extra...)

			stdout, _, err := execute(t, args...)
			if err != nil {
				t.Fatalf("search failed: %v", err)
			}
			if got := strings.Count(stdout, "\n"); got != tt.count {
				t.Errorf("Expected %d lines, got %d:\n%s", tt.count, got, stdout)
			}
			if tt.want != "" && !strings.Contains(stdout, tt.want) {
				t.Errorf("Output missing %q:\n%s", tt.want, stdout)
			}
		})
	}
}

func TestRunSearch_Width(t *testing.T) {
	_, configPath := setupSyslog(t)

	args := append([]string{"--config", configPath, "search", "--width", "20"}, windowArgs("10:00", "10:30")...)
	stdout, _, err := execute(t, args...)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	for _, line := range strings.Split(strings.TrimSuffix(stdout, "\n"), "\n") {
		if len(line) > 20 {
			t.Errorf("Line wider than 20: %q", line)
		}
	}
}

func TestRunSearch_InvalidQuery(t *testing.T) {
	_, configPath := setupSyslog(t)

	args := append([]string{"--config", configPath, "search"}, windowArgs("10:30", "10:00")...)
	stdout, _, err := execute(t, args...)
	if err != nil {
		t.Fatalf("Invalid query should not be a command error: %v", err)
	}
	if ExitCode != ExitInvalidQuery {
		t.Errorf("ExitCode = %d, want %d", ExitCode, ExitInvalidQuery)
	}
	if !strings.HasPrefix(stdout, "Invalid query:\n  * start time") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRunSearch_Errors(t *testing.T) {
	dir, configPath := setupSyslog(t)
	noMatchConfig := writeConfig(t, t.TempDir(), filepath.Join(dir, "*.missing"), "")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "missing config",
			args: []string{"--config", filepath.Join(dir, "nope.yaml"), "search"},
			want: "loading config",
		},
		{
			name: "every source missing",
			args: []string{"--config", noMatchConfig, "search"},
			want: "no log source could be read",
		},
		{
			name: "bad time spec",
			args: []string{"--config", configPath, "search", "--from", "teatime"},
			want: "start time",
		},
		{
			name: "bad pattern",
			args: []string{"--config", configPath, "search", "("},
			want: "building query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Error %q should contain %q", err, tt.want)
			}
		})
	}
}

func TestRunSearch_Merge(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.log"), today(10, 45, 0),
		syslogLine(today(10, 1, 0), "a", "first"),
		syslogLine(today(10, 3, 0), "a", "third"),
	)
	writeFile(t, filepath.Join(dir, "b.log"), today(10, 45, 0),
		syslogLine(today(10, 2, 0), "b", "second"),
	)
	configPath := writeConfig(t, dir, filepath.Join(dir, "*.log"), "")

	args := append([]string{"--config", configPath, "search", "--merge"}, windowArgs("10:00", "10:30")...)
	stdout, _, err := execute(t, args...)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	first := strings.Index(stdout, "first")
	second := strings.Index(stdout, "second")
	third := strings.Index(stdout, "third")
	if first < 0 || second < 0 || third < 0 || !(first < second && second < third) {
		t.Errorf("Merged output out of order:\n%s", stdout)
	}
}

func TestRunSearch_VerboseLogsToStderr(t *testing.T) {
	_, configPath := setupSyslog(t)

	args := append([]string{"--config", configPath, "-v", "search"}, windowArgs("10:00", "10:30")...)
	stdout, stderr, err := execute(t, args...)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if !strings.Contains(stderr, "search complete") {
		t.Errorf("stderr missing debug log:\n%s", stderr)
	}
	if strings.Contains(stdout, "level=") {
		t.Errorf("Log lines leaked to stdout:\n%s", stdout)
	}
}
