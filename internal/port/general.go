package port

import (
	"fmt"
	"strconv"
	"time"

	"github.com/aymerick/raymond"
	"github.com/hyperport/hyperport/internal/rules"
	"github.com/hyperport/hyperport/pkg/logger"
	"github.com/hyperport/hyperport/pkg/propfile"
)

// buildDateLayout matches the conventional Android build.prop date
// format, e.g. "Fri Aug 29 03:12:44 UTC 2025".
const buildDateLayout = "Mon Jan 02 15:04:05 UTC 2006"

// Default build identity when the environment supplies none.
const (
	defaultBuildUser = "Bruce"
	defaultBuildHost = "HyperOS-Port"
)

// deprecatedKeys are dropped from every property file during the
// general-info pass. primaryscale interferes with the migrated density.
var deprecatedKeys = []string{"ro.miui.density.primaryscale="}

// applyGeneralInfo rewrites build metadata (timestamps, version codes,
// build identity) across the whole tree from the general-info table.
func (p *Pipeline) applyGeneralInfo(ctx BuildContext) error {
	if p.General.Empty() {
		// Deprecated keys are dropped regardless of the rule table.
		logger.Info("General-info table is empty, applying deletions only")
		return rewriteTree(ctx.Root, nil, deprecatedKeys, false)
	}

	user := ctx.BuildUser
	if user == "" {
		user = defaultBuildUser
	}
	host := ctx.BuildHost
	if host == "" {
		host = defaultBuildHost
	}

	now := time.Now().UTC()
	// SafeString keeps raymond from HTML-escaping property values.
	tctx := map[string]interface{}{
		rules.PlaceholderBuildDate:  raymond.SafeString(now.Format(buildDateLayout)),
		rules.PlaceholderBuildUTC:   raymond.SafeString(strconv.FormatInt(now.Unix(), 10)),
		rules.PlaceholderBaseCode:   raymond.SafeString(ctx.StockCode),
		rules.PlaceholderROMVersion: raymond.SafeString(ctx.ROMVersion),
		rules.PlaceholderBuildUser:  raymond.SafeString(user),
		rules.PlaceholderBuildHost:  raymond.SafeString(host),
	}

	logger.Debug("General info update",
		logger.String("base_code", ctx.StockCode),
		logger.String("rom_version", ctx.ROMVersion),
		logger.Bool("eu", ctx.EURegion))

	merged := p.General.Merged(ctx.EURegion)
	ruleSet := make([]propfile.Rule, 0, len(merged))
	for _, entry := range merged {
		rendered, err := raymond.Render(entry.Template, tctx)
		if err != nil {
			return fmt.Errorf("render template for %q: %w", entry.Key, err)
		}
		ruleSet = append(ruleSet, propfile.KeyRule(entry.Key, rendered))
	}

	return rewriteTree(ctx.Root, ruleSet, deprecatedKeys, false)
}
