// Package version provides version information about the application.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// These variables are set at build time using -ldflags. The defaults
// are fine for local development builds.
var (
	// Version is the git tag version number.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date of the build.
	BuildDate = "unknown"
)

// Info holds all the version information.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Get returns the version information, filling in whatever the build
// info can provide beyond the ldflags values.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion

		for _, setting := range bi.Settings {
			switch setting.Key {
			case "GOOS":
				info.Platform = setting.Value
			case "GOARCH":
				if info.Platform != "" {
					info.Platform += "/" + setting.Value
				}
			case "vcs.revision":
				if info.Commit == "unknown" {
					info.Commit = setting.Value
				}
			}
		}
	}

	if info.Platform == "" {
		info.Platform = fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
	}

	return info
}
