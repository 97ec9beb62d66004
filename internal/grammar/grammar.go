// Package grammar holds the built-in step rule tables, one file per domain.
//
// Tables are plain values. Nothing is registered at import time: callers pick
// domains with Tables and hand them to rules.NewRegistry, so tests can build
// registries from any subset.
package grammar

import (
	"fmt"

	"github.com/solatis/stepgrammar/internal/rules"
)

var tableFuncs = map[rules.Domain]func() []rules.Rule{
	rules.DomainUI:        uiRules,
	rules.DomainAssertion: assertionRules,
	rules.DomainWait:      waitRules,
	rules.DomainDatabase:  databaseRules,
	rules.DomainDataMap:   dataMapRules,
	rules.DomainContext:   contextRules,
	rules.DomainVariable:  variableRules,
	rules.DomainAPI:       apiRules,
}

// Domains returns every built-in domain in band order.
func Domains() []rules.Domain {
	return []rules.Domain{
		rules.DomainUI,
		rules.DomainAssertion,
		rules.DomainWait,
		rules.DomainDatabase,
		rules.DomainDataMap,
		rules.DomainContext,
		rules.DomainVariable,
		rules.DomainAPI,
	}
}

// Tables returns the rule tables for domains, or all of them when none are
// named. Unknown domains are an error.
func Tables(domains ...rules.Domain) ([]rules.Table, error) {
	if len(domains) == 0 {
		domains = Domains()
	}
	tables := make([]rules.Table, 0, len(domains))
	seen := make(map[rules.Domain]bool, len(domains))
	for _, d := range domains {
		fn, ok := tableFuncs[d]
		if !ok {
			return nil, fmt.Errorf("unknown grammar domain %q", d)
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		tables = append(tables, rules.Table{Domain: d, Rules: fn()})
	}
	return tables, nil
}

// NewRegistry builds a registry over the named domains (all when empty).
func NewRegistry(opts rules.Options, domains ...rules.Domain) (*rules.Registry, error) {
	tables, err := Tables(domains...)
	if err != nil {
		return nil, err
	}
	return rules.NewRegistry(tables, opts)
}

// ParseDomains converts names to domains, rejecting unknown names.
func ParseDomains(names []string) ([]rules.Domain, error) {
	out := make([]rules.Domain, 0, len(names))
	for _, n := range names {
		d := rules.Domain(n)
		if _, ok := tableFuncs[d]; !ok {
			return nil, fmt.Errorf("unknown grammar domain %q", n)
		}
		out = append(out, d)
	}
	return out, nil
}
