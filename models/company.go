package models

import (
	"sort"
	"strings"
)

// CompanySet is a set of broker names keyed by their exact trimmed text.
// No other normalization is applied: "株式会社A" and "(株)A" are distinct.
type CompanySet map[string]struct{}

func NewCompanySet(names ...string) CompanySet {
	s := make(CompanySet, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add trims name and inserts it. Empty results are dropped.
func (s CompanySet) Add(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	s[name] = struct{}{}
}

func (s CompanySet) Merge(other CompanySet) {
	for n := range other {
		s[n] = struct{}{}
	}
}

func (s CompanySet) Len() int {
	return len(s)
}

func (s CompanySet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the names in lexicographic (byte) order.
func (s CompanySet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
