// Package main is the entry point for the stsetup command, which
// prepares the configuration files a Streamlit app reads at startup.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"stsetup/internal/config"
	"stsetup/internal/logging"
	"stsetup/internal/streamlit"
	"stsetup/internal/version"
	"stsetup/internal/watch"
)

func main() {
	// Load .env file if it exists (for development)
	if err := godotenv.Load(); err != nil {
		if os.Getenv("DEBUG") == "true" {
			fmt.Fprintf(os.Stderr, "No .env file found or error loading it: %v\n", err)
		}
	}

	// Handle version flag first, before loading configuration
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-version" || os.Args[1] == "version") {
		versionInfo := version.Get()
		fmt.Printf("stsetup version %s\n", versionInfo.Version)
		fmt.Printf("  commit: %s\n", versionInfo.Commit)
		fmt.Printf("  built: %s\n", versionInfo.BuildDate)
		fmt.Printf("  go: %s\n", versionInfo.GoVersion)
		fmt.Printf("  platform: %s\n", versionInfo.Platform)
		os.Exit(0)
	}

	command, args := splitCommand(os.Args[1:])

	var err error
	switch command {
	case "materialize":
		err = runMaterialize(args)
	case "doctor":
		err = runDoctor(args)
	case "watch":
		err = runWatch(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\nUsage: stsetup [materialize|doctor|watch|version] [flags]\n", command)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// splitCommand separates the subcommand from its flags. With no
// subcommand, or with flags only, materialize is implied so that a
// bare `stsetup` matches the setup script it replaces.
func splitCommand(args []string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "materialize", args
	}
	return args[0], args[1:]
}

func runMaterialize(args []string) error {
	fs := flag.NewFlagSet("materialize", flag.ExitOnError)
	fs.String("dir", "", "Target directory (default ~/.streamlit)")
	fs.String("port", "", "Port value written into config.toml (default taken from $PORT)")
	fs.Bool("atomic", false, "Stage both files and rename them into place together")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyFlags(cfg, fs)

	if err := streamlit.New(cfg).Materialize(); err != nil {
		return err
	}

	fmt.Printf("Wrote %s and %s to %s\n", streamlit.CredentialsFile, streamlit.SettingsFile, cfg.ConfigDir)
	return nil
}

func runDoctor(args []string) error {
	fs := flag.NewFlagSet("doctor", flag.ExitOnError)
	format := fs.String("format", "yaml", "Report format: yaml or text")
	fs.String("dir", "", "Directory to inspect (default ~/.streamlit)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyFlags(cfg, fs)

	report := streamlit.Inspect(cfg.ConfigDir)

	out, err := renderReport(report, *format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\nUsage: stsetup doctor [-dir DIR] [-format yaml|text]\n", err)
		os.Exit(2)
	}
	fmt.Print(out)

	if !report.OK() {
		return fmt.Errorf("configuration in %s is incomplete", cfg.ConfigDir)
	}
	return nil
}

// renderReport renders the doctor report in the requested format.
func renderReport(report *streamlit.Report, format string) (string, error) {
	switch format {
	case "yaml":
		out, err := yaml.Marshal(report)
		if err != nil {
			return "", fmt.Errorf("failed to render report: %w", err)
		}
		return string(out), nil
	case "text":
		return report.String(), nil
	default:
		return "", fmt.Errorf("unknown format: %s", format)
	}
}

func runWatch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	envFile := fs.String("env-file", ".env", "Env file to watch for PORT changes")
	fs.String("dir", "", "Target directory (default ~/.streamlit)")
	fs.Bool("atomic", false, "Stage both files and rename them into place together")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyFlags(cfg, fs)

	closeLogs := initFileLogging()
	defer closeLogs()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watch.New(cfg, *envFile).Run(ctx)
}

// initFileLogging mirrors log output into a file during development.
// Outside of DEBUG=true, messages go to stderr only.
func initFileLogging() func() {
	if os.Getenv("DEBUG") != "true" {
		return func() {}
	}

	logDir := os.Getenv("STSETUP_LOG_DIR")
	if logDir == "" {
		logDir = "./logs"
	}

	if err := logging.Initialize(logDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize file logging: %v\n", err)
		return func() {}
	}

	return func() {
		_ = logging.Close()
	}
}

// applyFlags copies explicitly set flags over the loaded configuration,
// so a flag always wins over the config file and the environment.
func applyFlags(cfg *config.Config, fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dir":
			cfg.ConfigDir = f.Value.String()
		case "port":
			cfg.Port = f.Value.String()
		case "atomic":
			cfg.Atomic = f.Value.String() == "true"
		}
	})
}
