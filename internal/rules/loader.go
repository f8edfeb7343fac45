// Package rules loads the external rule tables driving the property
// pipeline: the general-info template table and the scheduler tuning
// table. Both are YAML documents validated against embedded JSON
// schemas at load time.
//
// Failure contract: a missing or malformed table degrades to an empty
// table (the corresponding pass becomes a no-op); a template that
// references an unknown placeholder is a configuration error and aborts
// the load.
package rules

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/hyperport/hyperport/pkg/logger"
	"gopkg.in/yaml.v3"
)

// ErrConfig marks fatal configuration errors that must abort the run
// rather than degrade to an empty table.
var ErrConfig = errors.New("invalid rule configuration")

// Placeholder names available to general-info value templates.
const (
	PlaceholderBuildDate  = "build_date"
	PlaceholderBuildUTC   = "build_utc"
	PlaceholderBaseCode   = "base_code"
	PlaceholderROMVersion = "rom_version"
	PlaceholderBuildUser  = "build_user"
	PlaceholderBuildHost  = "build_host"
)

// knownPlaceholders is the full template context vocabulary.
var knownPlaceholders = map[string]bool{
	PlaceholderBuildDate:  true,
	PlaceholderBuildUTC:   true,
	PlaceholderBaseCode:   true,
	PlaceholderROMVersion: true,
	PlaceholderBuildUser:  true,
	PlaceholderBuildHost:  true,
}

// placeholderPattern captures every mustache expression, whatever its
// shape, so dotted paths and block helpers cannot slip past validation
// and later render to empty strings.
var placeholderPattern = regexp.MustCompile(`\{\{([^}]*)\}\}`)

// Entry is one general-info rule: a property key and its value template.
type Entry struct {
	Key      string
	Template string
}

// Section is an ordered list of entries; order is the file's declared
// order and becomes the rule evaluation order.
type Section []Entry

// GeneralTable is the parsed general-info rule table.
type GeneralTable struct {
	Common Section
	EU     Section
	CN     Section
}

// Empty reports whether the table carries no rules at all.
func (t GeneralTable) Empty() bool {
	return len(t.Common) == 0 && len(t.EU) == 0 && len(t.CN) == 0
}

// Merged returns the common section overlaid with the regional one.
// Overlay entries with a key already present replace that entry's
// template in place; overlay-only keys are appended in overlay order.
func (t GeneralTable) Merged(eu bool) Section {
	overlay := t.CN
	if eu {
		overlay = t.EU
	}

	merged := make(Section, len(t.Common))
	copy(merged, t.Common)
	index := make(map[string]int, len(merged))
	for i, e := range merged {
		index[e.Key] = i
	}
	for _, e := range overlay {
		if i, ok := index[e.Key]; ok {
			merged[i].Template = e.Template
			continue
		}
		index[e.Key] = len(merged)
		merged = append(merged, e)
	}
	return merged
}

// Profile is a flat property set applied to the canonical product file.
type Profile map[string]string

// SortedKeys returns the profile keys in sorted order so batch
// application is deterministic.
func (p Profile) SortedKeys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SchedulerTable maps platform codes (and the default / android_15
// sentinels) to profiles.
type SchedulerTable map[string]Profile

// Sentinel profile names in the scheduler table.
const (
	DefaultProfile   = "default"
	Android15Profile = "android_15"
)

// LoadGeneralInfo loads and validates the general-info rule table.
func LoadGeneralInfo(path string) (GeneralTable, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied rule file
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("General-info rule table not found, pass will be skipped",
				logger.String("path", path))
		} else {
			logger.Error("Failed to read general-info rule table", logger.Err(err),
				logger.String("path", path))
		}
		return GeneralTable{}, nil
	}

	var generic map[string]interface{}
	if err := yaml.Unmarshal(data, &generic); err != nil {
		logger.Error("Failed to parse general-info rule table", logger.Err(err),
			logger.String("path", path))
		return GeneralTable{}, nil
	}
	if err := validate(generic, "props-global"); err != nil {
		logger.Error("General-info rule table rejected", logger.Err(err),
			logger.String("path", path))
		return GeneralTable{}, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil || len(doc.Content) == 0 {
		return GeneralTable{}, nil
	}

	var table GeneralTable
	root := doc.Content[0]
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		section := decodeSection(root.Content[i+1])
		switch name {
		case "common":
			table.Common = section
		case "eu_rom":
			table.EU = section
		case "cn_rom":
			table.CN = section
		}
	}

	if err := checkPlaceholders(table); err != nil {
		return GeneralTable{}, err
	}
	return table, nil
}

// decodeSection reads a YAML mapping node preserving declaration order.
func decodeSection(node *yaml.Node) Section {
	var section Section
	for i := 0; i+1 < len(node.Content); i += 2 {
		section = append(section, Entry{
			Key:      node.Content[i].Value,
			Template: node.Content[i+1].Value,
		})
	}
	return section
}

// checkPlaceholders rejects templates whose mustache expressions are
// anything but one of the known placeholder names. Catching this at
// load time keeps a typo in the rule file from surfacing halfway
// through a tree rewrite.
func checkPlaceholders(table GeneralTable) error {
	for _, section := range []Section{table.Common, table.EU, table.CN} {
		for _, entry := range section {
			for _, m := range placeholderPattern.FindAllStringSubmatch(entry.Template, -1) {
				name := strings.TrimSpace(m[1])
				if !knownPlaceholders[name] {
					return fmt.Errorf("%w: rule %q references unknown placeholder %q",
						ErrConfig, entry.Key, name)
				}
			}
		}
	}
	return nil
}

// LoadScheduler loads and validates the scheduler tuning table.
func LoadScheduler(path string) SchedulerTable {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied rule file
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("Scheduler rule table not found, using empty config",
				logger.String("path", path))
		} else {
			logger.Error("Failed to read scheduler rule table", logger.Err(err),
				logger.String("path", path))
		}
		return SchedulerTable{}
	}

	var generic map[string]interface{}
	if err := yaml.Unmarshal(data, &generic); err != nil {
		logger.Error("Failed to parse scheduler rule table", logger.Err(err),
			logger.String("path", path))
		return SchedulerTable{}
	}
	if err := validate(generic, "scheduler"); err != nil {
		logger.Error("Scheduler rule table rejected", logger.Err(err),
			logger.String("path", path))
		return SchedulerTable{}
	}

	table := make(SchedulerTable, len(generic))
	for platform, raw := range generic {
		profileRaw, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		profile := make(Profile, len(profileRaw))
		for k, v := range profileRaw {
			s, ok := v.(string)
			if !ok {
				continue
			}
			profile[k] = s
		}
		table[platform] = profile
	}
	return table
}
