// Package info holds build information injected through -ldflags.
package info

import (
	"runtime"
)

var (
	Version   = "dev"
	BuildDate string
)

type Info struct {
	Version   string `json:"version"`
	GoVersion string `json:"goVersion"`
	BuildDate string `json:"buildDate,omitempty"`
}

// Get returns the build information of the running binary.
func Get() Info {
	return Info{
		Version:   Version,
		GoVersion: runtime.Version(),
		BuildDate: BuildDate,
	}
}
