package port

import (
	"regexp"
	"strings"

	"github.com/hyperport/hyperport/pkg/logger"
	"github.com/hyperport/hyperport/pkg/propfile"
	"github.com/hyperport/hyperport/pkg/safeio"
)

const (
	densityKey   = "ro.sf.lcd_density"
	densityV2Key = "persist.miui.density_v2"

	// defaultDensity is used when the stock package does not expose a
	// density of its own.
	defaultDensity = "560"
)

var (
	densityPattern   = regexp.MustCompile(`ro\.sf\.lcd_density=.*`)
	densityV2Pattern = regexp.MustCompile(`persist\.miui\.density_v2=.*`)
)

// applyDensity migrates the stock screen density into the ported tree.
// Every occurrence of the density keys is rewritten; when the primary
// key exists nowhere in the tree it is appended to the canonical
// product file. I/O failures here are hard errors.
func (p *Pipeline) applyDensity(ctx BuildContext) error {
	base := ctx.Stock.GetProp(densityKey)
	if base == "" {
		base = defaultDensity
		logger.Warn("Base density not found, using default",
			logger.String("density", base))
	} else {
		logger.Info("Found base density", logger.String("density", base))
	}

	paths, err := propfile.Enumerate(ctx.Root)
	if err != nil {
		return err
	}

	foundPrimary := false
	for _, path := range paths {
		content, err := safeio.ReadFileLenient(path)
		if err != nil {
			return err
		}

		next := content
		if strings.Contains(content, densityKey+"=") {
			next = densityPattern.ReplaceAllLiteralString(next, densityKey+"="+base)
			foundPrimary = true
		}
		if strings.Contains(content, densityV2Key+"=") {
			next = densityV2Pattern.ReplaceAllLiteralString(next, densityV2Key+"="+base)
		}

		wrote, err := propfile.WriteIfChanged(path, content, next)
		if err != nil {
			return err
		}
		if wrote {
			logger.Debug("Updated density", logger.String("path", path))
		}
	}

	if foundPrimary {
		return nil
	}

	product := ctx.ProductProp()
	if !safeio.FileExists(product) {
		logger.Warn("Density key absent from tree and product build.prop missing, nothing to append")
		return nil
	}
	content, err := safeio.ReadFileLenient(product)
	if err != nil {
		return err
	}
	if err := safeio.WriteFileStrict(product, content+"\n"+densityKey+"="+base+"\n"); err != nil {
		return err
	}
	logger.Info("Appended density to product build.prop",
		logger.String("density", base))
	return nil
}
