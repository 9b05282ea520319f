// Package version exposes the build version stamped at link time.
package version

// version is overridden at build time via
// -ldflags "-X github.com/evlens/evlens/pkg/version.version=v1.2.3".
//
//nolint:gochecknoglobals // Link-time injection requires a package variable.
var version = "dev"

// GetVersion returns the CLI version string.
func GetVersion() string {
	return version
}
