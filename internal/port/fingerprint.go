package port

import (
	"fmt"
	"path/filepath"

	"github.com/hyperport/hyperport/pkg/logger"
	"github.com/hyperport/hyperport/pkg/propfile"
)

// searchPartitions is the priority order for fingerprint component
// lookup: the first partition holding a key wins.
var searchPartitions = []string{"product", "system", "vendor", "mi_ext"}

// fingerprintKeys all receive the identical synthesized fingerprint.
var fingerprintKeys = []string{
	"ro.build.fingerprint",
	"ro.bootimage.build.fingerprint",
	"ro.system.build.fingerprint",
	"ro.product.build.fingerprint",
	"ro.system_ext.build.fingerprint",
	"ro.vendor.build.fingerprint",
	"ro.odm.build.fingerprint",
	"ro.mi_ext.build.fingerprint",
}

// descriptionKeys all receive the identical synthesized description.
var descriptionKeys = []string{
	"ro.build.description",
	"ro.system.build.description",
}

// regenerateFingerprint recomputes the build fingerprint and
// description from the tree's own post-rewrite properties and
// broadcasts them to every property file. This pass revisits the whole
// tree, so unreadable files are skipped rather than aborting.
func (p *Pipeline) regenerateFingerprint(ctx BuildContext) error {
	brand := treeProp(ctx.Root, "ro.product.brand", "Xiaomi")
	name := treeProp(ctx.Root, "ro.product.mod_device", "")
	device := treeProp(ctx.Root, "ro.product.device", "miproduct")
	version := treeProp(ctx.Root, "ro.build.version.release", "")
	buildID := treeProp(ctx.Root, "ro.build.id", "")
	incremental := treeProp(ctx.Root, "ro.build.version.incremental", "")
	buildType := treeProp(ctx.Root, "ro.build.type", "user")
	tags := treeProp(ctx.Root, "ro.build.tags", "release-keys")

	fingerprint := fmt.Sprintf("%s/%s/%s:%s/%s/%s:%s/%s",
		brand, name, device, version, buildID, incremental, buildType, tags)
	description := fmt.Sprintf("%s-%s %s %s %s %s",
		name, buildType, version, buildID, incremental, tags)

	logger.Info("Regenerated fingerprint", logger.String("fingerprint", fingerprint))
	logger.Debug("Regenerated description", logger.String("description", description))

	ruleSet := make([]propfile.Rule, 0, len(fingerprintKeys)+len(descriptionKeys))
	for _, key := range fingerprintKeys {
		ruleSet = append(ruleSet, propfile.KeyRule(key, fingerprint))
	}
	for _, key := range descriptionKeys {
		ruleSet = append(ruleSet, propfile.KeyRule(key, description))
	}

	return rewriteTree(ctx.Root, ruleSet, nil, true)
}

// treeProp resolves a property from the working tree itself, searching
// partitions in priority order and files in deterministic enumeration
// order. The first match anywhere in the ordered search wins; values
// from different partitions are never merged. Unreadable partitions and
// files are silently skipped.
func treeProp(root, key, fallback string) string {
	for _, partition := range searchPartitions {
		paths, err := propfile.Enumerate(filepath.Join(root, partition))
		if err != nil {
			logger.Debug("Skipping unreadable partition",
				logger.String("partition", partition), logger.Err(err))
			continue
		}
		for _, path := range paths {
			val, ok, err := propfile.LookupFile(path, key)
			if err != nil {
				continue
			}
			if ok {
				return val
			}
		}
	}
	return fallback
}
