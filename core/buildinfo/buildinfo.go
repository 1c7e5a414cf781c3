// Package buildinfo reports the version stamped into the binary.
//
// Release builds set the variables with -ldflags:
//
//	-X 'github.com/m3rciful/rentalbot/core/buildinfo.Version=v1.2.3'
//	-X 'github.com/m3rciful/rentalbot/core/buildinfo.Commit=abcdef0'
//	-X 'github.com/m3rciful/rentalbot/core/buildinfo.Date=2025-08-30T12:00:00Z'
package buildinfo

import "runtime/debug"

var (
	Version = "dev"
	Commit  = "local"
	Date    = ""
)

// Info is the resolved build identity.
type Info struct {
	Version string
	Commit  string
	Date    string
}

// Get returns the ldflags values, filling unset commit and date from the
// VCS stamp the go tool embeds in module builds.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = fillFromSettings(info, bi.Settings)
	}
	return info
}

func fillFromSettings(info Info, settings []debug.BuildSetting) Info {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "local" && s.Value != "" {
				info.Commit = s.Value[:min(len(s.Value), 7)]
			}
		case "vcs.time":
			if info.Date == "" {
				info.Date = s.Value
			}
		}
	}
	return info
}
