package domain

import "strings"

// DefaultValidatedProviders are the carriers trusted out of the box
var DefaultValidatedProviders = []string{"Maersk", "MSC", "CMA CGM", "COSCO", "Hapag-Lloyd", "Yang Ming"}

// ValidatedProviderSet is the allow-list of pre-vetted provider names.
// It is built once and never mutated afterwards.
type ValidatedProviderSet struct {
	names map[string]struct{}
}

// NewValidatedProviderSet builds a set from the given names. Blank entries are
// ignored; matching is exact and case-sensitive.
func NewValidatedProviderSet(names ...string) ValidatedProviderSet {
	set := ValidatedProviderSet{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		set.names[name] = struct{}{}
	}
	return set
}

// Contains reports whether provider is in the allow-list
func (s ValidatedProviderSet) Contains(provider string) bool {
	_, ok := s.names[provider]
	return ok
}

// Len returns the number of validated providers
func (s ValidatedProviderSet) Len() int {
	return len(s.names)
}
