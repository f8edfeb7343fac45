// Package buildinfo exposes the version identity of the hyperport binary.
package buildinfo

import "runtime/debug"

// BinaryVersion is stamped at release time via -ldflags; "dev" marks a
// local build.
var BinaryVersion = "dev"

// ModuleVersion reports the module version recorded by the toolchain,
// or "" when no build info is embedded.
func ModuleVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	return info.Main.Version
}
