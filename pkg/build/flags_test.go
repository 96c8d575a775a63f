// SPDX-License-Identifier: MIT
package build

import (
	"os"
	"strings"
	"testing"
)

var (
	origName    string
	origTime    string
	origCommit  string
	origVersion string
	origFlags   ldFlags
)

func TestMain(m *testing.M) {
	origName = buildName
	origTime = buildTime
	origCommit = buildCommit
	origVersion = buildVersion
	if buildFlags != nil {
		origFlags = *buildFlags
	}

	exitCode := m.Run()

	buildName = origName
	buildTime = origTime
	buildCommit = origCommit
	buildVersion = origVersion
	if buildFlags != nil {
		*buildFlags = origFlags
	}

	os.Exit(exitCode)
}

func resetFlags() {
	buildFlags = &ldFlags{
		Name:    "music-viz",
		Time:    "unknown",
		Commit:  "unknown",
		Version: "dev",
	}
}

func TestInitializeWithLdflags(t *testing.T) {
	resetFlags()
	buildName = "testapp"
	buildTime = "2026-08-30"
	buildCommit = "abcdef123"
	buildVersion = "v1.0.0"

	if err := Initialize(); err != nil {
		t.Fatalf("Initialize() unexpected error: %v", err)
	}

	if buildFlags.Name != "testapp" {
		t.Errorf("buildFlags.Name = %v, want testapp", buildFlags.Name)
	}
	if buildFlags.Time != "2026-08-30" {
		t.Errorf("buildFlags.Time = %v, want 2026-08-30", buildFlags.Time)
	}
	if buildFlags.Commit != "abcdef123" {
		t.Errorf("buildFlags.Commit = %v, want abcdef123", buildFlags.Commit)
	}
	if buildFlags.Version != "v1.0.0" {
		t.Errorf("buildFlags.Version = %v, want v1.0.0", buildFlags.Version)
	}
}

func TestInitializeDevDefaults(t *testing.T) {
	resetFlags()
	buildName = ""
	buildTime = ""
	buildCommit = ""
	buildVersion = ""

	if err := Initialize(); err != nil {
		t.Fatalf("Initialize() without ldflags should not fail: %v", err)
	}

	if buildFlags.Version != "dev" {
		t.Errorf("buildFlags.Version = %v, want dev default", buildFlags.Version)
	}
	if buildFlags.Name != "music-viz" {
		t.Errorf("buildFlags.Name = %v, want music-viz default", buildFlags.Name)
	}
}

func TestInitializePartialLdflags(t *testing.T) {
	resetFlags()
	buildName = ""
	buildTime = ""
	buildCommit = "abcdef123"
	buildVersion = "v2.0.0"

	if err := Initialize(); err != nil {
		t.Fatalf("Initialize(): %v", err)
	}

	if buildFlags.Commit != "abcdef123" || buildFlags.Version != "v2.0.0" {
		t.Errorf("Set flags should be applied: %+v", buildFlags)
	}
	if buildFlags.Name != "music-viz" {
		t.Errorf("Unset flags should keep defaults: %+v", buildFlags)
	}
}

func TestGetBuildFlags(t *testing.T) {
	expected := ldFlags{
		Name:    "testapp",
		Time:    "2026-08-30",
		Commit:  "abcdef123",
		Version: "v1.0.0",
	}
	buildFlags = &expected

	flags := GetBuildFlags()

	if flags.Name != expected.Name ||
		flags.Time != expected.Time ||
		flags.Commit != expected.Commit ||
		flags.Version != expected.Version {
		t.Errorf("GetBuildFlags() = %+v, want %+v", flags, expected)
	}
}

func TestVersionBanner(t *testing.T) {
	f := &ldFlags{Name: "testapp", Time: "2026-08-30", Commit: "abcdef1", Version: "v1.0.0"}
	banner := f.String()

	for _, want := range []string{"testapp", "v1.0.0", "abcdef1", "2026-08-30"} {
		if !strings.Contains(banner, want) {
			t.Errorf("Banner %q missing %q", banner, want)
		}
	}
}
