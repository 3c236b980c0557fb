package streamlit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"stsetup/internal/config"
)

// Materializer writes the credentials and server settings documents
// into the configured target directory.
type Materializer struct {
	cfg *config.Config
}

// New creates a materializer for the given configuration. All inputs
// come from the configuration value; the materializer never reads the
// environment itself.
func New(cfg *config.Config) *Materializer {
	return &Materializer{cfg: cfg}
}

// Materialize ensures the target directory exists, then writes both
// documents, overwriting whatever is already there. In the default
// mode each file is written in place, so a failure after the first
// write leaves the second file in its previous state. With Atomic set,
// both files are staged first and renamed into place only after both
// staged writes succeeded.
func (m *Materializer) Materialize() error {
	if err := os.MkdirAll(m.cfg.ConfigDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", m.cfg.ConfigDir, err)
	}

	credentials := renderCredentials(m.cfg.Email)
	settings := renderServerSettings(m.cfg.Headless, m.cfg.EnableCORS, m.cfg.Port)

	if m.cfg.Atomic {
		return m.writeAtomic(credentials, settings)
	}
	return m.writeDirect(credentials, settings)
}

func (m *Materializer) writeDirect(credentials, settings string) error {
	credPath := filepath.Join(m.cfg.ConfigDir, CredentialsFile)
	if err := os.WriteFile(credPath, []byte(credentials), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", credPath, err)
	}

	settingsPath := filepath.Join(m.cfg.ConfigDir, SettingsFile)
	if err := os.WriteFile(settingsPath, []byte(settings), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", settingsPath, err)
	}

	return nil
}

// writeAtomic stages both documents as pending files and commits them
// only once both stages succeeded, so a failure leaves the previous
// on-disk state untouched.
func (m *Materializer) writeAtomic(credentials, settings string) error {
	pendingCred, err := renameio.NewPendingFile(filepath.Join(m.cfg.ConfigDir, CredentialsFile))
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", CredentialsFile, err)
	}
	defer func() {
		// No-op once the file has been committed
		_ = pendingCred.Cleanup()
	}()

	pendingSettings, err := renameio.NewPendingFile(filepath.Join(m.cfg.ConfigDir, SettingsFile))
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", SettingsFile, err)
	}
	defer func() {
		_ = pendingSettings.Cleanup()
	}()

	if _, err := pendingCred.WriteString(credentials); err != nil {
		return fmt.Errorf("failed to write staged %s: %w", CredentialsFile, err)
	}
	if _, err := pendingSettings.WriteString(settings); err != nil {
		return fmt.Errorf("failed to write staged %s: %w", SettingsFile, err)
	}

	if err := pendingCred.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to replace %s: %w", CredentialsFile, err)
	}
	if err := pendingSettings.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to replace %s: %w", SettingsFile, err)
	}

	return nil
}
