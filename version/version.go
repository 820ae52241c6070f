// Package version carries build metadata set through -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Set at build time, for example:
//
//	go build -ldflags "-X github.com/grovetools/treestate/version.Version=v0.3.0"
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// Info holds all the versioning information.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// GetInfo returns the version information of the running binary.
func GetInfo() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// Short returns "version (commit)", dropping the commit when unknown.
func (i Info) Short() string {
	if i.Commit == "" || i.Commit == "none" {
		return i.Version
	}
	commit := i.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (%s)", i.Version, commit)
}
