// Package misc keeps build time information.
package misc

import "runtime/debug"

// Set by linker (-X).
var (
	version = "dev"
	githash = ""
)

const appName = "mreader"

// GetAppName returns program name used for logs, reports and temporary files.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns VCS revision program was built from if known.
func GetGitHash() string {
	if len(githash) > 0 {
		return githash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
