package streamlit

import (
	"path/filepath"
	"strings"
	"testing"

	"stsetup/internal/config"
)

func materializeForTest(t *testing.T, port string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), ".streamlit")
	cfg := testConfig(dir)
	cfg.Port = port
	if err := New(cfg).Materialize(); err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	return dir
}

func TestInspectHealthyDirectory(t *testing.T) {
	dir := materializeForTest(t, "8080")

	report := Inspect(dir)

	if !report.OK() {
		t.Fatalf("Inspect() not OK, report:\n%s", report)
	}
	if report.Email != config.DefaultEmail {
		t.Errorf("Email = %v, want %v", report.Email, config.DefaultEmail)
	}
	if report.Port != 8080 {
		t.Errorf("Port = %v, want 8080", report.Port)
	}
	if len(report.Files) != 2 {
		t.Fatalf("Files = %d entries, want 2", len(report.Files))
	}
}

func TestInspectFlagsEmptyPort(t *testing.T) {
	// An empty PORT writes `port = ` which is not valid TOML. The
	// materializer keeps that behavior; the doctor has to surface it.
	dir := materializeForTest(t, "")

	report := Inspect(dir)

	if report.OK() {
		t.Fatal("Inspect() OK for empty port, want failure")
	}

	var settings *FileStatus
	for i := range report.Files {
		if report.Files[i].Name == SettingsFile {
			settings = &report.Files[i]
		}
	}
	if settings == nil {
		t.Fatal("report has no entry for config.toml")
	}
	if !settings.Present {
		t.Error("config.toml reported missing, want present")
	}
	if settings.Valid {
		t.Error("config.toml reported valid, want invalid")
	}
}

func TestInspectFlagsOutOfRangePort(t *testing.T) {
	dir := materializeForTest(t, "70000")

	report := Inspect(dir)

	if report.OK() {
		t.Fatal("Inspect() OK for out-of-range port, want failure")
	}
}

func TestInspectMissingDirectory(t *testing.T) {
	report := Inspect(filepath.Join(t.TempDir(), "missing"))

	if report.OK() {
		t.Fatal("Inspect() OK for missing directory, want failure")
	}
	for _, f := range report.Files {
		if f.Present {
			t.Errorf("%s reported present in missing directory", f.Name)
		}
	}
}

func TestReportString(t *testing.T) {
	dir := materializeForTest(t, "8080")

	text := Inspect(dir).String()

	for _, want := range []string{dir, CredentialsFile + ": ok", SettingsFile + ": ok"} {
		if !strings.Contains(text, want) {
			t.Errorf("String() missing %q in:\n%s", want, text)
		}
	}
}
