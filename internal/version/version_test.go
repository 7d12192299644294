package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestCurrent(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "v1.2.3"
	if got := Current().Version; got != "v1.2.3" {
		t.Errorf("Current().Version = %q, want the ldflag value", got)
	}
	Version = ""
	if got := Current().String(); !strings.HasPrefix(got, "stillwater ") {
		t.Errorf("Current().String() = %q", got)
	}
}

func TestFromBuildInfo(t *testing.T) {
	rev := []debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789abcdef"}}
	tests := []struct {
		name string
		tag  string
		info *debug.BuildInfo
		want string
	}{
		{
			name: "no build info",
			want: "stillwater devel",
		},
		{
			name: "ldflag wins",
			tag:  "v1.0.0",
			info: &debug.BuildInfo{Main: debug.Module{Version: "v0.4.0"}},
			want: "stillwater v1.0.0",
		},
		{
			name: "module version",
			info: &debug.BuildInfo{Main: debug.Module{Version: "v0.4.0"}},
			want: "stillwater v0.4.0",
		},
		{
			name: "clean revision",
			info: &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}, Settings: rev},
			want: "stillwater devel (0123456789ab)",
		},
		{
			name: "dirty revision",
			info: &debug.BuildInfo{Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc"},
				{Key: "vcs.modified", Value: "true"},
			}},
			want: "stillwater devel (abc, modified)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fromBuildInfo(tt.tag, tt.info).String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
