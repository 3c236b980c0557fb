package main

import (
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"stsetup/internal/config"
	"stsetup/internal/logging"
	"stsetup/internal/streamlit"
)

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCmd  string
		wantRest []string
	}{
		{
			name:    "no arguments implies materialize",
			args:    nil,
			wantCmd: "materialize",
		},
		{
			name:     "flags only imply materialize",
			args:     []string{"-port", "8080"},
			wantCmd:  "materialize",
			wantRest: []string{"-port", "8080"},
		},
		{
			name:     "explicit subcommand",
			args:     []string{"doctor", "-format", "text"},
			wantCmd:  "doctor",
			wantRest: []string{"-format", "text"},
		},
		{
			name:    "subcommand without flags",
			args:    []string{"watch"},
			wantCmd: "watch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, rest := splitCommand(tt.args)
			if cmd != tt.wantCmd {
				t.Errorf("command = %v, want %v", cmd, tt.wantCmd)
			}
			if len(rest) != len(tt.wantRest) || (len(rest) > 0 && !reflect.DeepEqual(rest, tt.wantRest)) {
				t.Errorf("rest = %v, want %v", rest, tt.wantRest)
			}
		})
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantDir  string
		wantPort string
	}{
		{
			name:     "unset flags keep loaded values",
			args:     nil,
			wantDir:  "/loaded/.streamlit",
			wantPort: "1234",
		},
		{
			name:     "set flags override loaded values",
			args:     []string{"-dir", "/flag/.streamlit", "-port", "9999"},
			wantDir:  "/flag/.streamlit",
			wantPort: "9999",
		},
		{
			name:     "explicitly empty port flag wins",
			args:     []string{"-port", ""},
			wantDir:  "/loaded/.streamlit",
			wantPort: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.String("dir", "", "")
			fs.String("port", "", "")
			fs.Bool("atomic", false, "")
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			cfg := &config.Config{
				ConfigDir: "/loaded/.streamlit",
				Port:      "1234",
			}
			applyFlags(cfg, fs)

			if cfg.ConfigDir != tt.wantDir {
				t.Errorf("ConfigDir = %v, want %v", cfg.ConfigDir, tt.wantDir)
			}
			if cfg.Port != tt.wantPort {
				t.Errorf("Port = %q, want %q", cfg.Port, tt.wantPort)
			}
		})
	}
}

func TestRenderReport(t *testing.T) {
	report := &streamlit.Report{
		Dir:   "/home/app/.streamlit",
		Email: config.DefaultEmail,
		Port:  8080,
		Files: []streamlit.FileStatus{
			{Name: streamlit.CredentialsFile, Present: true, Valid: true},
			{Name: streamlit.SettingsFile, Present: true, Valid: true},
		},
	}

	t.Run("yaml", func(t *testing.T) {
		out, err := renderReport(report, "yaml")
		if err != nil {
			t.Fatalf("renderReport() error = %v", err)
		}
		for _, want := range []string{"dir: /home/app/.streamlit", "port: 8080"} {
			if !strings.Contains(out, want) {
				t.Errorf("yaml output missing %q in:\n%s", want, out)
			}
		}
	})

	t.Run("text", func(t *testing.T) {
		out, err := renderReport(report, "text")
		if err != nil {
			t.Fatalf("renderReport() error = %v", err)
		}
		if !strings.Contains(out, "Directory: /home/app/.streamlit") {
			t.Errorf("text output missing directory line in:\n%s", out)
		}
	})

	t.Run("unknown format is a usage error", func(t *testing.T) {
		if _, err := renderReport(report, "json"); err == nil {
			t.Fatal("renderReport() expected error for unknown format")
		}
	})
}

func TestInitFileLogging(t *testing.T) {
	// Without the DEBUG gate, nothing is initialized
	t.Setenv("DEBUG", "false")
	closeLogs := initFileLogging()
	closeLogs()

	// With the gate set, messages are mirrored into the log file
	logDir := filepath.Join(t.TempDir(), "logs")
	t.Setenv("DEBUG", "true")
	t.Setenv("STSETUP_LOG_DIR", logDir)

	closeLogs = initFileLogging()
	logging.Info("watching for changes")
	closeLogs()

	data, err := os.ReadFile(filepath.Join(logDir, "stsetup.log"))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "[INFO] watching for changes") {
		t.Errorf("log file missing mirrored line, got:\n%s", string(data))
	}
}
