// Package port implements the property transformation pipeline run
// against a ported firmware working tree: general-info rewrite, density
// migration, device-specific fixes, fingerprint regeneration, and
// scheduler tuning, in that order.
//
// Each pass re-enumerates the property files it touches, so every pass
// sees the output of the previous ones. All write paths compare new
// content to old before touching disk, which makes the full pipeline
// converge to a fixed point when re-run.
package port

import (
	"fmt"

	"github.com/hyperport/hyperport/internal/rules"
	"github.com/hyperport/hyperport/pkg/logger"
	"github.com/hyperport/hyperport/pkg/propfile"
	"github.com/hyperport/hyperport/pkg/safeio"
)

// Pipeline binds the loaded rule tables to the ordered pass list.
type Pipeline struct {
	General   rules.GeneralTable
	Scheduler rules.SchedulerTable
}

// NewPipeline builds a pipeline from loaded rule tables.
func NewPipeline(general rules.GeneralTable, scheduler rules.SchedulerTable) *Pipeline {
	return &Pipeline{General: general, Scheduler: scheduler}
}

type stage struct {
	name string
	run  func(BuildContext) error
}

func (p *Pipeline) stages() []stage {
	return []stage{
		{"general-info", p.applyGeneralInfo},
		{"density", p.applyDensity},
		{"specific-fixes", p.applySpecificFixes},
		{"fingerprint", p.regenerateFingerprint},
		{"scheduler", p.tuneScheduler},
	}
}

// Run executes every pass in order. A pass failure aborts the run;
// writes from completed passes are left in place.
func (p *Pipeline) Run(ctx BuildContext) error {
	logger.Info("Starting property modifications", logger.String("root", ctx.Root))
	for _, s := range p.stages() {
		logger.Debug("Running pass", logger.String("pass", s.name))
		if err := s.run(ctx); err != nil {
			return fmt.Errorf("%s pass: %w", s.name, err)
		}
	}
	logger.Info("Property modifications completed")
	return nil
}

// rewriteTree applies a rule set to every property file under root.
// In tolerant mode unreadable or unwritable files are skipped so a
// partially corrupt tree does not abort the pass.
func rewriteTree(root string, ruleSet []propfile.Rule, deletePrefixes []string, tolerant bool) error {
	paths, err := propfile.Enumerate(root)
	if err != nil {
		return err
	}
	for _, path := range paths {
		content, err := safeio.ReadFileLenient(path)
		if err != nil {
			if tolerant {
				logger.Debug("Skipping unreadable property file",
					logger.String("path", path), logger.Err(err))
				continue
			}
			return err
		}

		next, changed := propfile.Apply(content, ruleSet, deletePrefixes)
		if !changed {
			continue
		}
		if err := safeio.WriteFileStrict(path, next); err != nil {
			if tolerant {
				logger.Debug("Skipping unwritable property file",
					logger.String("path", path), logger.Err(err))
				continue
			}
			return err
		}
		logger.Debug("Rewrote property file", logger.String("path", path))
	}
	return nil
}
