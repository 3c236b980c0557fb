// Package watch re-runs the materializer whenever an env file changes,
// so a locally running Streamlit app picks up a new PORT on restart.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"

	"stsetup/internal/config"
	"stsetup/internal/logging"
	"stsetup/internal/streamlit"
)

// debounceDelay coalesces the burst of events editors emit on save
const debounceDelay = 500 * time.Millisecond

// Watcher re-materializes the Streamlit configuration whenever the
// watched env file is written.
type Watcher struct {
	cfg     *config.Config
	envFile string
}

// New creates a watcher for the given env file. The file's PORT entry
// overrides the configured port on every run.
func New(cfg *config.Config, envFile string) *Watcher {
	return &Watcher{cfg: cfg, envFile: envFile}
}

// Run materializes once up front, then blocks until ctx is cancelled,
// re-running the materializer each time the env file changes. The
// containing directory is watched rather than the file itself, so
// editors that replace the file on save keep triggering events.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	dir := filepath.Dir(w.envFile)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	if err := w.rematerialize(); err != nil {
		logging.Error("Initial materialization failed: %v", err)
	}

	logging.Info("Watching %s for changes", w.envFile)

	// Debounce timer to avoid multiple runs for rapid file changes
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logging.Info("Watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.envFile) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceDelay, func() {
					if err := w.rematerialize(); err != nil {
						logging.Error("Materialization failed: %v", err)
					}
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error("Watcher error: %v", err)
		}
	}
}

// rematerialize re-reads the env file and runs the materializer with a
// copy of the configuration carrying the current PORT value.
func (w *Watcher) rematerialize() error {
	cfg := *w.cfg

	env, err := godotenv.Read(w.envFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", w.envFile, err)
	}
	if port, ok := env["PORT"]; ok {
		cfg.Port = port
	}

	if err := streamlit.New(&cfg).Materialize(); err != nil {
		return err
	}

	logging.Info("Materialized %s and %s in %s (port %q)",
		streamlit.CredentialsFile, streamlit.SettingsFile, cfg.ConfigDir, cfg.Port)
	return nil
}
