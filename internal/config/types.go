package config

import (
	"github.com/paulwelden/git-ranger/internal/secret"
)

// DefaultConfigFileName is the configuration file git-ranger looks for in
// the working directory.
const DefaultConfigFileName = "ranger.yaml"

// ProviderKind identifies a hosting provider implementation.
type ProviderKind string

const (
	KindGitLab ProviderKind = "gitlab"
	KindGitHub ProviderKind = "github"
	KindGitea  ProviderKind = "gitea"
)

// Config is the in-memory form of ranger.yaml. It is an immutable value
// threaded explicitly through discovery; there is no process-wide
// configuration singleton.
type Config struct {
	// Providers maps a provider name (e.g. "gitlab", "company-gitlab") to
	// its endpoint configuration.
	Providers map[string]Provider `yaml:"providers,omitempty"`

	// Groups maps a provider name to the groups/orgs to sync from it.
	Groups map[string][]Group `yaml:"groups,omitempty"`

	// Repos lists standalone repositories synced by explicit URL.
	Repos []Repo `yaml:"repos,omitempty"`
}

// Provider identifies a hosting endpoint.
type Provider struct {
	// Kind selects the client implementation. When omitted it defaults to
	// the provider's map key, so the common `gitlab:` / `github:` entries
	// need no explicit kind.
	Kind ProviderKind `yaml:"kind,omitempty"`

	// Host is the base URL of the instance. Empty means the provider's
	// public host (github.com, gitlab.com).
	Host string `yaml:"host,omitempty"`

	// Token authenticates API calls. Usually an ${ENV_VAR} reference;
	// resolved only when a request is actually made.
	Token secret.Value `yaml:"token,omitempty"`
}

// Group declares a provider group/org whose repositories are synced.
type Group struct {
	// Name is the provider-side group path ("my-org/my-team") or org name.
	Name string `yaml:"name"`

	// LocalDir, when set, prefixes the group's natural nested path under
	// the workspace root.
	LocalDir string `yaml:"local_dir,omitempty"`

	// Recursive includes nested subgroups transitively.
	Recursive bool `yaml:"recursive,omitempty"`
}

// Repo declares a standalone repository synced by URL.
type Repo struct {
	URL string `yaml:"url"`

	// LocalDir, when set, replaces the default target directory (the
	// workspace root). Relative paths are resolved against the root.
	LocalDir string `yaml:"local_dir,omitempty"`
}

// ProviderFor returns the provider entry for a name along with its effective
// kind (explicit kind, or the map key when it names a known kind).
func (c Config) ProviderFor(name string) (Provider, ProviderKind, bool) {
	p, ok := c.Providers[name]
	if !ok {
		return Provider{}, "", false
	}
	return p, p.effectiveKind(name), true
}

func (p Provider) effectiveKind(name string) ProviderKind {
	if p.Kind != "" {
		return p.Kind
	}
	return ProviderKind(name)
}
