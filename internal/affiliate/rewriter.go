package affiliate

import (
	"net/url"
	"sync"
)

// maxPasses bounds how many unwraps are followed for nested redirectors.
const maxPasses = 3

// Rewriter applies a rule table to URLs. It is safe for concurrent use and
// its table can be swapped at runtime.
type Rewriter struct {
	mu    sync.RWMutex
	rules []compiledRule
}

// NewRewriter builds a Rewriter over rules.
func NewRewriter(rules []Rule) (*Rewriter, error) {
	compiled, err := compile(rules)
	if err != nil {
		return nil, err
	}
	return &Rewriter{rules: compiled}, nil
}

// Replace swaps the rule table. On error the current table is kept.
func (r *Rewriter) Replace(rules []Rule) error {
	compiled, err := compile(rules)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.rules = compiled
	r.mu.Unlock()
	return nil
}

// Len returns the number of active rules.
func (r *Rewriter) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

// Rewrite returns the affiliate form of raw, or raw itself when no rule
// applies or raw is not an absolute http(s) URL.
func (r *Rewriter) Rewrite(raw string) string {
	r.mu.RLock()
	rules := r.rules
	r.mu.RUnlock()

	out := raw
	for pass := 0; pass < maxPasses; pass++ {
		next, action, ok := apply(rules, out)
		if !ok {
			break
		}
		out = next
		if action != ActionUnwrap {
			break
		}
	}
	return out
}

func apply(rules []compiledRule, raw string) (string, Action, bool) {
	u, ok := parseHTTP(raw)
	if !ok {
		return raw, "", false
	}
	for i := range rules {
		rule := &rules[i]
		if !rule.matchesHost(u.Host) {
			continue
		}
		out, changed := rule.rewrite(u, raw)
		return out, rule.Action, changed
	}
	return raw, "", false
}

func (rule *compiledRule) rewrite(u *url.URL, raw string) (string, bool) {
	switch rule.Action {
	case ActionUnwrap:
		dest := u.Query().Get(rule.Param)
		if _, ok := parseHTTP(dest); !ok {
			return raw, false
		}
		return dest, true

	case ActionSetParam:
		q := u.Query()
		if q.Get(rule.Param) == rule.Value && len(q[rule.Param]) == 1 {
			return raw, false
		}
		q.Set(rule.Param, rule.Value)
		u.RawQuery = q.Encode()
		return u.String(), true

	case ActionReplacePrefix:
		loc := rule.re.FindStringIndex(raw)
		if loc == nil || loc[0] != 0 {
			return raw, false
		}
		return rule.Prefix + raw[loc[1]:], true
	}
	return raw, false
}

func parseHTTP(raw string) (*url.URL, bool) {
	if raw == "" {
		return nil, false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, false
	}
	return u, true
}
