package port

import (
	"strings"

	"github.com/hyperport/hyperport/internal/rules"
	"github.com/hyperport/hyperport/pkg/logger"
	"github.com/hyperport/hyperport/pkg/propfile"
	"github.com/hyperport/hyperport/pkg/safeio"
)

// platformCodes are the known SoC codenames, tested newest first.
var platformCodes = []string{"sm8550", "sm8450", "sm8250"}

// unknownPlatform is reported when detection finds no codename.
const unknownPlatform = "unknown"

// detectPlatform classifies the tree by scanning the raw vendor
// property file for known platform codenames. First match wins.
func detectPlatform(vendorProp string) string {
	if !safeio.FileExists(vendorProp) {
		return unknownPlatform
	}
	content, err := safeio.ReadFileLenient(vendorProp)
	if err != nil {
		return unknownPlatform
	}
	for _, code := range platformCodes {
		if strings.Contains(content, code) {
			return code
		}
	}
	return unknownPlatform
}

// tuneScheduler selects a scheduler profile for the detected platform
// and batch-applies it to the canonical product file. Selection order:
// exact platform entry, then the android_15 sentinel for unknown
// platforms on Android 15, then the default entry.
func (p *Pipeline) tuneScheduler(ctx BuildContext) error {
	product := ctx.ProductProp()
	if !safeio.FileExists(product) {
		logger.Warn("Product build.prop not found, skipping scheduler tuning")
		return nil
	}

	platform := detectPlatform(ctx.VendorProp())
	logger.Info("Applying scheduler tuning",
		logger.String("platform", platform),
		logger.String("android", ctx.AndroidVersion))

	var profile rules.Profile
	if selected, ok := p.Scheduler[platform]; ok {
		profile = selected
	} else if fallback, ok := p.Scheduler[rules.Android15Profile]; ok &&
		platform == unknownPlatform && ctx.AndroidVersion == "15" {
		profile = fallback
	} else {
		profile = p.Scheduler[rules.DefaultProfile]
	}

	if len(profile) == 0 {
		return nil
	}
	logger.Debug("Applying scheduler properties", logger.Int("count", len(profile)))
	for _, key := range profile.SortedKeys() {
		if err := propfile.UpdateOrAppend(product, key, profile[key]); err != nil {
			return err
		}
	}
	return nil
}
