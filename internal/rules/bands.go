// internal/rules/bands.go
package rules

import (
	"fmt"
	"sort"
)

/*
 * Priority bands.
 *
 * Each rule table belongs to a domain, and each domain reserves a contiguous
 * range of priorities. Lower priorities are tried first, so a domain's band
 * position decides which domain wins when two patterns accept the same
 * sentence. Bands are disjoint; a rule declared outside its table's band is a
 * load error.
 *
 * Ordering constraints the default table must keep:
 *   - database precedes context: "get database row" must never be claimed
 *     by the generic "get ... from context" forms.
 *   - variable precedes api: plain "store"/"set" steps are variable steps;
 *     api steps only use those verbs with an "api response" qualifier.
 */

// Domain names a rule table.
type Domain string

const (
	DomainUI        Domain = "ui"
	DomainAssertion Domain = "assertion"
	DomainWait      Domain = "wait"
	DomainDatabase  Domain = "database"
	DomainDataMap   Domain = "datamap"
	DomainContext   Domain = "context"
	DomainVariable  Domain = "variable"
	DomainAPI       Domain = "api"
)

// Band is an inclusive priority range.
type Band struct {
	Min int
	Max int
}

// Contains reports whether priority p lies inside the band.
func (b Band) Contains(p int) bool {
	return p >= b.Min && p <= b.Max
}

func (b Band) String() string {
	return fmt.Sprintf("%d-%d", b.Min, b.Max)
}

// DefaultBands returns the reserved priority range of every built-in domain.
// A fresh map is returned on each call.
func DefaultBands() map[Domain]Band {
	return map[Domain]Band{
		DomainUI:        {Min: 100, Max: 299},
		DomainAssertion: {Min: 300, Max: 449},
		DomainWait:      {Min: 450, Max: 549},
		DomainDatabase:  {Min: 550, Max: 599},
		DomainDataMap:   {Min: 600, Max: 699},
		DomainContext:   {Min: 700, Max: 749},
		DomainVariable:  {Min: 750, Max: 849},
		DomainAPI:       {Min: 850, Max: 948},
	}
}

// ValidateBands returns an error when any two bands overlap.
func ValidateBands(bands map[Domain]Band) error {
	domains := make([]Domain, 0, len(bands))
	for d, b := range bands {
		if b.Min > b.Max {
			return fmt.Errorf("domain %s: band %s is empty", d, b)
		}
		domains = append(domains, d)
	}
	sort.Slice(domains, func(i, j int) bool {
		return bands[domains[i]].Min < bands[domains[j]].Min
	})
	for i := 1; i < len(domains); i++ {
		prev, cur := bands[domains[i-1]], bands[domains[i]]
		if cur.Min <= prev.Max {
			return fmt.Errorf("domains %s and %s: bands %s and %s overlap",
				domains[i-1], domains[i], prev, cur)
		}
	}
	return nil
}

// Table is one domain's rule list in registration order.
type Table struct {
	Domain Domain
	Rules  []Rule
}
