// Package version reports the build of the haierac binary.
//
// Release builds stamp Version and Commit through ldflags:
//
//	go build -ldflags="-X github.com/muurk/haierac/internal/version.Version=v1.2.3 \
//	                   -X github.com/muurk/haierac/internal/version.Commit=abc123"
//
// Other builds fall back to the VCS settings Go embeds in the binary.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

var (
	// Version is the semantic version of the application
	Version = ""
	// Commit is the git commit hash
	Commit = ""
)

// goVersion is the toolchain that built the binary, from the embedded build info
var goVersion = "unknown"

func init() {
	info, _ := debug.ReadBuildInfo()
	applyBuildInfo(info, time.Now())
}

// applyBuildInfo fills whatever ldflags left empty. info may be nil when the
// binary carries no build info.
func applyBuildInfo(info *debug.BuildInfo, now time.Time) {
	var revision, modified, vcsTime string
	if info != nil {
		if info.GoVersion != "" {
			goVersion = info.GoVersion
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				revision = s.Value
			case "vcs.modified":
				modified = s.Value
			case "vcs.time":
				vcsTime = s.Value
			}
		}
	}

	if Commit == "" && revision != "" {
		if len(revision) > 7 {
			revision = revision[:7]
		}
		Commit = revision
		if modified == "true" {
			Commit += "-dirty"
		}
	}
	if Commit == "" {
		Commit = "unknown"
	}

	// Build info has no tags, so untagged builds are dated instead
	if Version == "" {
		if t, err := time.Parse(time.RFC3339, vcsTime); err == nil {
			Version = "dev-" + t.Format("20060102")
		} else {
			Version = "dev-" + now.Format("20060102-150405")
		}
	}
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// Info is the version report printed by "haierac version --format json"
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
}

// Get returns the version details of the running binary
func Get() Info {
	return Info{Version: Version, Commit: Commit, GoVersion: goVersion}
}
