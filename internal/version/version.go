// Package version reports the stillwater build version.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version is set at build time with
// -ldflags "-X github.com/marcus/stillwater/internal/version.Version=v1.2.3".
var Version = ""

// Build describes the running binary.
type Build struct {
	Version  string // release tag, "" for development builds
	Revision string // short VCS revision, when recorded
	Modified bool   // built from a dirty tree
}

// Current returns the build description. The ldflag Version wins over the
// module version recorded by go install.
func Current() Build {
	info, _ := debug.ReadBuildInfo()
	return fromBuildInfo(Version, info)
}

func fromBuildInfo(tag string, info *debug.BuildInfo) Build {
	b := Build{Version: tag}
	if info == nil {
		return b
	}
	if b.Version == "" && info.Main.Version != "(devel)" {
		b.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			b.Revision = s.Value
			if len(b.Revision) > 12 {
				b.Revision = b.Revision[:12]
			}
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}
	return b
}

// String renders b the way `stillwater version` prints it, for example
// "stillwater v1.2.0" or "stillwater devel (0123456789ab, modified)".
func (b Build) String() string {
	v := b.Version
	if v == "" {
		v = "devel"
	}
	switch {
	case b.Revision == "":
		return "stillwater " + v
	case b.Modified:
		return fmt.Sprintf("stillwater %s (%s, modified)", v, b.Revision)
	default:
		return fmt.Sprintf("stillwater %s (%s)", v, b.Revision)
	}
}
