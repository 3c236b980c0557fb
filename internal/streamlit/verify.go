package streamlit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileStatus describes one materialized file as found on disk.
type FileStatus struct {
	Name     string   `yaml:"name"`
	Present  bool     `yaml:"present"`
	Valid    bool     `yaml:"valid"`
	Problems []string `yaml:"problems,omitempty"`
}

func (s *FileStatus) problem(msg string) {
	s.Valid = false
	s.Problems = append(s.Problems, msg)
}

// Report is the result of inspecting a config directory.
type Report struct {
	Dir   string       `yaml:"dir"`
	Files []FileStatus `yaml:"files"`
	Email string       `yaml:"email,omitempty"`
	Port  int64        `yaml:"port,omitempty"`
}

// OK reports whether every inspected file is present and decodes to a
// sensible document.
func (r *Report) OK() bool {
	for _, f := range r.Files {
		if !f.Present || !f.Valid {
			return false
		}
	}
	return true
}

// String renders the report as indented plain text.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Directory: %s\n", r.Dir)
	for _, f := range r.Files {
		status := "ok"
		switch {
		case !f.Present:
			status = "missing"
		case !f.Valid:
			status = "invalid"
		}
		fmt.Fprintf(&b, "  %s: %s\n", f.Name, status)
		for _, p := range f.Problems {
			fmt.Fprintf(&b, "    - %s\n", p)
		}
	}
	return b.String()
}

// Inspect reads the materialized files back from dir and decodes them.
// It never modifies the directory. Problems that the materializer
// deliberately does not guard against, such as an empty or non-numeric
// port (which yields a file Streamlit cannot parse), surface here.
func Inspect(dir string) *Report {
	report := &Report{Dir: dir}

	var creds Credentials
	credStatus := inspectFile(filepath.Join(dir, CredentialsFile), &creds)
	if credStatus.Valid {
		if creds.General.Email == "" {
			credStatus.problem("email is empty")
		} else {
			report.Email = creds.General.Email
		}
	}
	report.Files = append(report.Files, *credStatus)

	var settings ServerSettings
	settingsStatus := inspectFile(filepath.Join(dir, SettingsFile), &settings)
	if settingsStatus.Valid {
		port := settings.Server.Port
		if port <= 0 || port > 65535 {
			settingsStatus.problem(fmt.Sprintf("port %d is out of range", port))
		} else {
			report.Port = port
		}
	}
	report.Files = append(report.Files, *settingsStatus)

	return report
}

// inspectFile reads and decodes a single document, recording what went
// wrong instead of failing.
func inspectFile(path string, v interface{}) *FileStatus {
	status := &FileStatus{Name: filepath.Base(path)}

	data, err := os.ReadFile(path)
	if err != nil {
		status.Problems = append(status.Problems, fmt.Sprintf("cannot read file: %v", err))
		return status
	}
	status.Present = true

	if err := toml.Unmarshal(data, v); err != nil {
		status.Problems = append(status.Problems, fmt.Sprintf("invalid TOML: %v", err))
		return status
	}
	status.Valid = true

	return status
}
