// SPDX-License-Identifier: MIT
//
// Package build carries binary metadata (name, build time, commit,
// version) injected at compile time with -ldflags. Development builds
// without ldflags fall back to "dev" placeholders instead of failing.
package build

import "fmt"

type ldFlags struct {
	Name    string
	Time    string
	Commit  string
	Version string
}

// Populated by -ldflags during compilation.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = &ldFlags{
		Name:    "music-viz",
		Time:    "unknown",
		Commit:  "unknown",
		Version: "dev",
	}
)

// Initialize copies build information from the ldflags variables into
// buildFlags. Missing flags keep their development defaults. Call once
// early in startup.
func Initialize() error {
	if buildName != "" {
		buildFlags.Name = buildName
	}
	if buildTime != "" {
		buildFlags.Time = buildTime
	}
	if buildCommit != "" {
		buildFlags.Commit = buildCommit
	}
	if buildVersion != "" {
		buildFlags.Version = buildVersion
	}
	return nil
}

// GetBuildFlags returns the current build information. Safe to call any
// time; before Initialize it reports development defaults.
func GetBuildFlags() *ldFlags {
	return buildFlags
}

// String renders the one-line version banner used by the version command.
func (f *ldFlags) String() string {
	return fmt.Sprintf("%s %s (%s, built %s)", f.Name, f.Version, f.Commit, f.Time)
}
