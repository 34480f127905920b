// Package version exposes build-time version metadata.
package version

// SinkholegenVersion is the semantic version string embedded at build time.
var SinkholegenVersion = "0.0.0-src"

// Set version at compile time with
// go build -ldflags "-X sinkholegen/pkg/version.SinkholegenVersion=1.0.0" -o sinkholegen

// For a release build with version and optimization flags:
// go build -ldflags "-s -w -X sinkholegen/pkg/version.SinkholegenVersion=1.0.0" -o sinkholegen
