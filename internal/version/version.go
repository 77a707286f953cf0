// Package version provides build version information for the application.
// This is a separate package to avoid import cycles between cli and tray packages.
package version

// Version is the build version string, set by ldflags during build.
// Format: vX.Y.Z or vX.Y.Z-dev for development builds.
var Version = "v1.2.0"

// BuildTime is the build timestamp, set by ldflags during build.
var BuildTime = "unknown"

// UserAgent is sent with every Nightscout request.
func UserAgent() string {
	return "nightscout-tray/" + Version
}
