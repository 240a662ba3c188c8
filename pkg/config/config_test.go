package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ccollicutt/logsoul/pkg/parser"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
log_files:
  - /var/log/*.log
log_format:
  name: app
  regex: '^(\d+)/(\d+) (\d+):(\d+):(\d+) (\w+) (.*)$'
  captures: [month, day, hours, minutes, seconds, class, message]
display_width: 100
default_lookback: 15m
`
	path := writeTempFile(t, "config.yaml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.LogFiles) != 1 || cfg.LogFiles[0] != "/var/log/*.log" {
		t.Errorf("LogFiles = %v, want [/var/log/*.log]", cfg.LogFiles)
	}
	if cfg.LogFormat.Name != "app" {
		t.Errorf("LogFormat.Name = %q, want app", cfg.LogFormat.Name)
	}
	if len(cfg.LogFormat.Captures) != 7 {
		t.Errorf("Captures = %v, want 7 entries", cfg.LogFormat.Captures)
	}
	if cfg.LogFormat.CompiledRegex() == nil {
		t.Error("CompiledRegex() is nil after Load")
	}
	if cfg.DisplayWidth != 100 {
		t.Errorf("DisplayWidth = %d, want 100", cfg.DisplayWidth)
	}
	if cfg.DefaultLookback != 15*time.Minute {
		t.Errorf("DefaultLookback = %v, want 15m", cfg.DefaultLookback)
	}
}

func TestLoad_ScalarLogFiles(t *testing.T) {
	content := `log_files: /var/log/app/*.log, /var/log/db/*.log
`
	path := writeTempFile(t, "config.yaml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.LogFiles) != 2 {
		t.Fatalf("LogFiles = %v, want 2 entries", cfg.LogFiles)
	}
	if cfg.LogFiles[1] != "/var/log/db/*.log" {
		t.Errorf("LogFiles[1] = %q", cfg.LogFiles[1])
	}
}

func TestLoad_DefaultFormat(t *testing.T) {
	path := writeTempFile(t, "config.yaml", "log_files: /var/log/syslog\n")
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogFormat.Regex != DefaultRegex {
		t.Errorf("Regex = %q, want default", cfg.LogFormat.Regex)
	}
	if cfg.LogFormat.Name != "syslog" {
		t.Errorf("Name = %q, want syslog", cfg.LogFormat.Name)
	}
	if cfg.DisplayWidth != DefaultDisplayWidth {
		t.Errorf("DisplayWidth = %d, want %d", cfg.DisplayWidth, DefaultDisplayWidth)
	}
	if cfg.DefaultLookback != DefaultLookback {
		t.Errorf("DefaultLookback = %v, want %v", cfg.DefaultLookback, DefaultLookback)
	}
}

func TestLoad_NamedGroupsWithoutCaptures(t *testing.T) {
	content := `log_files: /var/log/app.log
log_format:
  regex: '^(?P<month>\d+)/(?P<day>\d+) (?P<hours>\d+):(?P<minutes>\d+):(?P<seconds>\d+) (?P<message>.*)$'
`
	path := writeTempFile(t, "config.yaml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.LogFormat.Captures) != 0 {
		t.Errorf("Captures = %v, want none (named groups)", cfg.LogFormat.Captures)
	}
}

func TestLoad_TOML(t *testing.T) {
	content := `
log_files = ["/var/log/a.log", "/var/log/b.log"]
display_width = 80
default_lookback = "1h"

[log_format]
name = "numeric"
regex = '^(\d+)/(\d+) (\d+):(\d+):(\d+) (.*)$'
captures = ["month", "day", "hours", "minutes", "seconds", "message"]
`
	path := writeTempFile(t, "config.toml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.LogFiles) != 2 {
		t.Errorf("LogFiles = %v, want 2 entries", cfg.LogFiles)
	}
	if cfg.LogFormat.Name != "numeric" {
		t.Errorf("LogFormat.Name = %q, want numeric", cfg.LogFormat.Name)
	}
	if cfg.DisplayWidth != 80 {
		t.Errorf("DisplayWidth = %d, want 80", cfg.DisplayWidth)
	}
	if cfg.DefaultLookback != time.Hour {
		t.Errorf("DefaultLookback = %v, want 1h", cfg.DefaultLookback)
	}
}

func TestLoad_TOMLScalarLogFiles(t *testing.T) {
	path := writeTempFile(t, "config.toml", `log_files = "/var/log/*.log"`+"\n")
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.LogFiles) != 1 {
		t.Errorf("LogFiles = %v, want 1 entry", cfg.LogFiles)
	}
}

func TestLoad_TOMLInvalidLookback(t *testing.T) {
	path := writeTempFile(t, "config.toml", "log_files = \"/x.log\"\ndefault_lookback = \"soon\"\n")
	if _, err := Load(context.Background(), path); err == nil {
		t.Error("Load() expected error for invalid default_lookback")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/logsoul.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTempFile(t, "invalid.yaml", `invalid: yaml: content: [`)
	_, err := Load(context.Background(), path)
	if err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvLogFiles, "/env/a.log,/env/b.log")
	t.Setenv(EnvDisplayWidth, "64")

	path := writeTempFile(t, "config.yaml", "log_files: /file.log\n")
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.LogFiles) != 2 || cfg.LogFiles[0] != "/env/a.log" {
		t.Errorf("LogFiles = %v, want env override", cfg.LogFiles)
	}
	if cfg.DisplayWidth != 64 {
		t.Errorf("DisplayWidth = %d, want 64", cfg.DisplayWidth)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.LogFiles = StringList{"/var/log/*.log"}
		cfg.applyFormatDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"no log files", func(c *Config) { c.LogFiles = nil }, "log_files"},
		{"empty regex", func(c *Config) { c.LogFormat.Regex = "" }, "regex is required"},
		{"invalid regex", func(c *Config) { c.LogFormat.Regex = "([" }, "invalid regex"},
		{"too many captures", func(c *Config) {
			c.LogFormat.Regex = `^(\d+)`
		}, "capture groups"},
		{"unknown capture", func(c *Config) {
			c.LogFormat.Captures = append(c.LogFormat.Captures[:7], "year")
		}, "unknown capture"},
		{"missing time fields", func(c *Config) {
			c.LogFormat.Regex = `^(\w+) (.*)$`
			c.LogFormat.Captures = []string{"class", "message"}
		}, "missing: month, day, hours, minutes, seconds"},
		{"zero width", func(c *Config) { c.DisplayWidth = 0 }, "display_width"},
		{"negative lookback", func(c *Config) { c.DefaultLookback = -time.Minute }, "default_lookback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DisplayWidth != DefaultDisplayWidth {
		t.Errorf("DisplayWidth = %d, want %d", cfg.DisplayWidth, DefaultDisplayWidth)
	}
	if cfg.DefaultLookback != 5*time.Minute {
		t.Errorf("DefaultLookback = %v, want 5m", cfg.DefaultLookback)
	}
	if cfg.LogFormat.Regex != "" {
		t.Error("DefaultConfig() should leave the format for applyFormatDefaults")
	}
}

func TestDefaultRegex_MatchesSyslog(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogFiles = StringList{"/x.log"}
	cfg.applyFormatDefaults()
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	format, err := parser.NewLineFormat(cfg.LogFormat.CompiledRegex(), cfg.LogFormat.Captures)
	if err != nil {
		t.Fatalf("NewLineFormat() error = %v", err)
	}

	d, ok := format.Decompose("Mar  4 10:05:00 web1 sshd[4242]: Accepted publickey for deploy")
	if !ok {
		t.Fatal("default regex did not match a syslog line")
	}
	if d.Class != "sshd" || d.Machine != "web1" {
		t.Errorf("Class = %q, Machine = %q", d.Class, d.Machine)
	}
	if d.Message != "Accepted publickey for deploy" {
		t.Errorf("Message = %q", d.Message)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.log", "a.log", "skip.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("LOGSOUL_TEST_DIR", dir)

	cfg := DefaultConfig()
	cfg.LogFiles = StringList{"$LOGSOUL_TEST_DIR/*.log"}
	cfg.applyFormatDefaults()

	rt, err := cfg.Resolve(parser.WithLocation(time.UTC))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	files := rt.Files()
	want := []string{filepath.Join(dir, "a.log"), filepath.Join(dir, "b.log")}
	if len(files) != len(want) {
		t.Fatalf("Files() = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("Files()[%d] = %q, want %q", i, files[i], want[i])
		}
	}
	if rt.Format.Name() != "syslog" {
		t.Errorf("Format.Name() = %q, want syslog", rt.Format.Name())
	}
	if rt.DisplayWidth != DefaultDisplayWidth || rt.DefaultLookback != DefaultLookback {
		t.Errorf("Runtime settings = %d, %v", rt.DisplayWidth, rt.DefaultLookback)
	}
}

func TestResolve_NoSources(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogFiles = StringList{"  "}
	cfg.applyFormatDefaults()

	_, err := cfg.Resolve()
	if !errors.Is(err, ErrNoSources) {
		t.Errorf("Resolve() error = %v, want ErrNoSources", err)
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}
