// Package buildinfo holds version information injected at build time via ldflags:
//
//	-X github.com/nekotray/nekotray/internal/buildinfo.Version=v1.2.0
package buildinfo

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// String is the one-line version used in logs.
func String() string {
	return Version + " (" + CommitHash + ", " + BuildDate + ")"
}
