package detector

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// ruleFile is the on-disk shape of a user-supplied rule file.
type ruleFile struct {
	Rules []ruleSpec `yaml:"rules"`
}

type ruleSpec struct {
	Name       string  `yaml:"name"`
	Pattern    string  `yaml:"pattern"`
	MinEntropy float64 `yaml:"min_entropy"`
}

// LoadRules reads additional detection rules from a YAML file. Each rule is a
// name plus a regular expression, with an optional entropy floor. Loaded
// rules are appended to the defaults by the caller, so extending the rule set
// never requires a code change.
func LoadRules(path string) ([]Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file %s: %w", path, err)
	}

	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}

	patterns := make([]Pattern, 0, len(rf.Rules))
	for i, r := range rf.Rules {
		if r.Name == "" {
			return nil, fmt.Errorf("rules file %s: rule %d has no name", path, i)
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rules file %s: rule %q: %w", path, r.Name, err)
		}
		patterns = append(patterns, Pattern{
			Name:       r.Name,
			Regex:      re,
			MinEntropy: r.MinEntropy,
		})
	}

	return patterns, nil
}
