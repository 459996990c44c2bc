// Package buildinfo holds version metadata stamped in at build time via
// -ldflags "-X github.com/banksort-dev/banksort/internal/buildinfo.Version=...".
package buildinfo

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
