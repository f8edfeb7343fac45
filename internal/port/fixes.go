package port

import (
	"strings"

	"github.com/hyperport/hyperport/pkg/logger"
	"github.com/hyperport/hyperport/pkg/propfile"
	"github.com/hyperport/hyperport/pkg/safeio"
)

const (
	custErofsKey     = "ro.miui.cust_erofs"
	milletKey        = "ro.millet.netlink"
	blurSupportedKey = "persist.sys.background_blur_supported"
	blurVersionKey   = "persist.sys.background_blur_version"
	cgroupKey        = "persist.sys.millet.cgroup1"

	// defaultMilletVersion is the netlink protocol version assumed when
	// the stock package does not declare one.
	defaultMilletVersion = "29"
)

// applySpecificFixes applies the discrete device fixes: erofs cust
// flag, millet netlink version, background blur flags, and the vendor
// cgroup comment-out. Each step degrades to a no-op when its target
// file is missing.
func (p *Pipeline) applySpecificFixes(ctx BuildContext) error {
	product := ctx.ProductProp()

	if safeio.FileExists(product) {
		if err := propfile.UpdateOrAppend(product, custErofsKey, "0"); err != nil {
			return err
		}
	}

	millet := ctx.Stock.GetProp(milletKey)
	if millet == "" {
		millet = defaultMilletVersion
		logger.Warn("Millet netlink version not found in base, using default",
			logger.String("version", millet))
	} else {
		logger.Debug("Found base millet version", logger.String("version", millet))
	}
	if err := propfile.UpdateOrAppend(product, milletKey, millet); err != nil {
		return err
	}

	if err := propfile.UpdateOrAppend(product, blurSupportedKey, "true"); err != nil {
		return err
	}
	if err := propfile.UpdateOrAppend(product, blurVersionKey, "2"); err != nil {
		return err
	}

	return p.disableVendorCgroup(ctx)
}

// disableVendorCgroup comments out the millet cgroup property in the
// vendor file. The guard on an existing comment marker keeps the fix
// idempotent.
func (p *Pipeline) disableVendorCgroup(ctx BuildContext) error {
	vendor := ctx.VendorProp()
	if !safeio.FileExists(vendor) {
		return nil
	}
	content, err := safeio.ReadFileLenient(vendor)
	if err != nil {
		return err
	}
	if !strings.Contains(content, cgroupKey) || strings.Contains(content, "#persist") {
		return nil
	}
	logger.Debug("Commenting out vendor cgroup property", logger.String("key", cgroupKey))
	next := strings.ReplaceAll(content, cgroupKey, "#"+cgroupKey)
	return safeio.WriteFileStrict(vendor, next)
}
