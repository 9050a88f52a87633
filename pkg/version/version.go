// Package version holds the build version stamped at release time.
package version

// Version is the current dreamscope release. Overridden at build time via
// -ldflags "-X github.com/mistvale/dreamscope/pkg/version.Version=v1.2.3".
var Version = "v0.4.0"
