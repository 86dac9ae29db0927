// Package affiliate rewrites outbound deal URLs into their affiliate form.
//
// Rules come from a YAML table (or the built-in defaults) and are matched by
// host in order; the first matching rule wins.
package affiliate

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Action is what a rule does to a matching URL.
type Action string

const (
	// ActionSetParam forces a query parameter to a fixed value.
	ActionSetParam Action = "set_param"
	// ActionUnwrap replaces the URL with the destination carried in one of
	// its query parameters.
	ActionUnwrap Action = "unwrap"
	// ActionReplacePrefix swaps a regex-matched prefix for a fixed one.
	ActionReplacePrefix Action = "replace_prefix"
)

var ErrInvalidRule = errors.New("invalid affiliate rule")

// Rule is one entry of the rule table as it appears in YAML.
type Rule struct {
	Name         string `yaml:"name"`
	Host         string `yaml:"host"`
	HostContains string `yaml:"host_contains"`
	Action       Action `yaml:"action"`
	Param        string `yaml:"param"`
	Value        string `yaml:"value"`
	Pattern      string `yaml:"pattern"`
	Prefix       string `yaml:"prefix"`
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// compiledRule is a validated Rule with its pattern compiled.
type compiledRule struct {
	Rule
	re *regexp.Regexp
}

func (r *compiledRule) matchesHost(host string) bool {
	host = strings.ToLower(host)
	if r.Host != "" {
		return host == strings.ToLower(r.Host)
	}
	return strings.Contains(host, strings.ToLower(r.HostContains))
}

func compile(rules []Rule) ([]compiledRule, error) {
	out := make([]compiledRule, 0, len(rules))
	for i, r := range rules {
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}
		if r.Host == "" && r.HostContains == "" {
			return nil, fmt.Errorf("%w %s: host or host_contains is required", ErrInvalidRule, name)
		}

		c := compiledRule{Rule: r}
		switch r.Action {
		case ActionSetParam:
			if r.Param == "" || r.Value == "" {
				return nil, fmt.Errorf("%w %s: set_param needs param and value", ErrInvalidRule, name)
			}
		case ActionUnwrap:
			if r.Param == "" {
				return nil, fmt.Errorf("%w %s: unwrap needs param", ErrInvalidRule, name)
			}
		case ActionReplacePrefix:
			if r.Pattern == "" || r.Prefix == "" {
				return nil, fmt.Errorf("%w %s: replace_prefix needs pattern and prefix", ErrInvalidRule, name)
			}
			pattern := r.Pattern
			if !strings.HasPrefix(pattern, "^") {
				pattern = "^" + pattern
			}
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("%w %s: %v", ErrInvalidRule, name, err)
			}
			c.re = re
		default:
			return nil, fmt.Errorf("%w %s: unknown action %q", ErrInvalidRule, name, r.Action)
		}
		out = append(out, c)
	}
	return out, nil
}

// ParseRules decodes and validates a YAML rule table.
func ParseRules(data []byte) ([]Rule, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse affiliate rules: %w", err)
	}
	if _, err := compile(f.Rules); err != nil {
		return nil, err
	}
	return f.Rules, nil
}

// LoadRules reads a YAML rule table from path.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read affiliate rules: %w", err)
	}
	return ParseRules(data)
}

// DefaultRules is the table used when no rules file is configured.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "linksynergy", Host: "click.linksynergy.com", Action: ActionUnwrap, Param: "murl"},
		{Name: "skimlinks", Host: "go.redirectingat.com", Action: ActionUnwrap, Param: "url"},
		{
			Name:    "bestbuy",
			Host:    "bestbuyca.o93x.net",
			Action:  ActionReplacePrefix,
			Pattern: `^https://bestbuyca\.o93x\.net/c/\d+/\d+/\d+\?u=`,
			Prefix:  "https://bestbuyca.o93x.net/c/5215192/2035226/10221?u=",
		},
		{Name: "amazon", HostContains: "amazon.", Action: ActionSetParam, Param: "tag", Value: "dealspot-20"},
	}
}
