package routing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadRules reads a routing table from a YAML file. The document is a
// sequence of rules, so declaration order survives the round trip:
//
//	- pattern: '.*\.yml$'
//	  repo: life-os
//	  path: .github/workflows/
//	  description: GitHub Actions workflow
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("rules file %s contains no rules", path)
	}
	for i, rule := range rules {
		if rule.Pattern == "" {
			return nil, fmt.Errorf("rule %d in %s has an empty pattern", i, path)
		}
		if rule.Destination.Repo == "" {
			return nil, fmt.Errorf("rule %d (%q) in %s has no repo", i, rule.Pattern, path)
		}
	}
	return rules, nil
}
