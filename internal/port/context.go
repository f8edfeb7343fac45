package port

import "path/filepath"

// PropSource looks up a property value from the stock (unported)
// package. Implementations return "" when the key is unknown.
type PropSource interface {
	GetProp(key string) string
}

// EmptySource is a PropSource with no properties.
type EmptySource struct{}

// GetProp always reports the key as unknown.
func (EmptySource) GetProp(string) string { return "" }

// BuildContext carries the configuration for one porting run. It is an
// immutable value passed into every pass; the pipeline never mutates it.
type BuildContext struct {
	// StockCode is the stock ROM identifier code (the base device).
	StockCode string
	// ROMVersion is the target ROM version string.
	ROMVersion string
	// EURegion selects the eu_rom overlay instead of cn_rom.
	EURegion bool
	// AndroidVersion is the target Android version, e.g. "15".
	AndroidVersion string
	// Root is the working tree produced by image extraction.
	Root string
	// Stock resolves properties from the original, unported package.
	Stock PropSource
	// BuildUser and BuildHost name the build in generated properties.
	// Empty values fall back to the conventional defaults.
	BuildUser string
	BuildHost string
}

// ProductProp returns the canonical product property file, the single
// target for append-only fixes.
func (c BuildContext) ProductProp() string {
	return filepath.Join(c.Root, "product", "etc", "build.prop")
}

// VendorProp returns the canonical vendor property file used for
// platform detection and vendor fixes.
func (c BuildContext) VendorProp() string {
	return filepath.Join(c.Root, "vendor", "build.prop")
}
