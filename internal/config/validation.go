package config

import (
	"fmt"
)

var knownKinds = map[ProviderKind]bool{
	KindGitLab: true,
	KindGitHub: true,
	KindGitea:  true,
}

// Validate checks structural invariants that must hold before discovery
// runs. Token resolution is deliberately not part of validation: an unset
// environment variable only fails when the token is actually used.
func (c Config) Validate() error {
	for name, p := range c.Providers {
		kind := p.effectiveKind(name)
		if !knownKinds[kind] {
			return fmt.Errorf("provider %q: unknown kind %q", name, kind)
		}
	}

	for providerName, groups := range c.Groups {
		if _, ok := c.Providers[providerName]; !ok {
			return fmt.Errorf("groups reference undefined provider %q", providerName)
		}
		for i, g := range groups {
			if g.Name == "" {
				return fmt.Errorf("provider %q: group %d has no name", providerName, i)
			}
		}
	}

	for i, r := range c.Repos {
		if r.URL == "" {
			return fmt.Errorf("repo %d has no url", i)
		}
	}

	return nil
}
