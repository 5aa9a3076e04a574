package discovery

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/paulwelden/git-ranger/internal/config"
	"github.com/paulwelden/git-ranger/internal/provider"
	"github.com/paulwelden/git-ranger/internal/secret"
	"github.com/paulwelden/git-ranger/pkg/logging"
)

// groupFanOut bounds concurrent group listings within one provider so a
// config with many groups does not hammer the provider API.
const groupFanOut = 4

// DesiredRepo is the resolved unit the planner operates on.
type DesiredRepo struct {
	// Name identifies the repository in reports (its directory basename).
	Name string

	// URL is the canonical remote clone URL.
	URL string

	// LocalPath is the absolute path the working copy belongs at. Unique
	// across the whole desired set.
	LocalPath string

	// Provider is the configured provider name, empty for standalone repos.
	Provider string

	// Token is the owning provider's credential, still unresolved. The
	// executor resolves it only when a network action is actually run.
	Token secret.Value
}

// Set is the flattened, deduplicated desired repository set, ordered by
// local path.
type Set []DesiredRepo

// Diagnostic records a discovery-time failure scoped to one provider or
// group. Diagnostics degrade the desired set without aborting discovery for
// unrelated entries.
type Diagnostic struct {
	Provider string
	Group    string
	Err      error
}

func (d Diagnostic) String() string {
	scope := d.Provider
	if d.Group != "" {
		scope = d.Provider + "/" + d.Group
	}
	if scope == "" {
		return d.Err.Error()
	}
	return fmt.Sprintf("%s: %v", scope, d.Err)
}

// PathConflict reports two config entries resolving to the same local path
// with different remote URLs. Both entries are excluded from the executable
// set; the engine never silently picks one.
type PathConflict struct {
	LocalPath string
	URLs      []string
}

func (e *PathConflict) Error() string {
	return fmt.Sprintf("path conflict: %s is claimed by %s", e.LocalPath, strings.Join(e.URLs, " and "))
}

// candidate is a desired repo before deduplication.
type candidate struct {
	repo DesiredRepo
}

// Discover resolves the configuration into the desired repository set.
// Providers are queried concurrently; a failure (unset token, API error)
// produces a Diagnostic for the affected provider or group and discovery
// continues elsewhere. The returned set is sorted by local path.
func Discover(ctx context.Context, cfg config.Config, root string, factory provider.Factory) (Set, []Diagnostic) {
	var (
		mu          sync.Mutex
		candidates  []candidate
		diagnostics []Diagnostic
	)
	add := func(r DesiredRepo) {
		mu.Lock()
		candidates = append(candidates, candidate{repo: r})
		mu.Unlock()
	}
	diagnose := func(d Diagnostic) {
		mu.Lock()
		diagnostics = append(diagnostics, d)
		mu.Unlock()
	}

	for _, r := range cfg.Repos {
		add(standaloneRepo(r, root))
	}

	// Deterministic provider order keeps log output stable; the listings
	// themselves run concurrently.
	providerNames := make([]string, 0, len(cfg.Groups))
	for name := range cfg.Groups {
		providerNames = append(providerNames, name)
	}
	sort.Strings(providerNames)

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range providerNames {
		groups := cfg.Groups[name]
		if len(groups) == 0 {
			continue
		}
		g.Go(func() error {
			discoverProvider(ctx, cfg, name, groups, root, factory, add, diagnose)
			return nil
		})
	}
	_ = g.Wait()

	set, conflicts := dedupe(candidates)
	diagnostics = append(diagnostics, conflicts...)

	logging.Info("Discovery", "resolved %d repositories (%d diagnostics)", len(set), len(diagnostics))
	return set, diagnostics
}

func discoverProvider(ctx context.Context, cfg config.Config, name string, groups []config.Group,
	root string, factory provider.Factory, add func(DesiredRepo), diagnose func(Diagnostic)) {

	pcfg, kind, ok := cfg.ProviderFor(name)
	if !ok {
		diagnose(Diagnostic{Provider: name, Err: fmt.Errorf("provider %q is not configured", name)})
		return
	}

	// The token is resolved here, at the moment this provider's groups are
	// actually listed. Other providers' tokens stay untouched, so an unset
	// GITLAB_TOKEN cannot block a GitHub-only sync.
	token, err := pcfg.Token.Resolve()
	if err != nil {
		diagnose(Diagnostic{Provider: name, Err: err})
		return
	}

	client, err := factory(kind, pcfg.Host, token)
	if err != nil {
		diagnose(Diagnostic{Provider: name, Err: err})
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(groupFanOut)
	for _, grp := range groups {
		g.Go(func() error {
			repos, err := client.ListGroupRepos(ctx, grp.Name, grp.Recursive)
			if err != nil {
				diagnose(Diagnostic{Provider: name, Group: grp.Name, Err: err})
				return nil
			}
			logging.Debug("Discovery", "%s group %s: %d repositories", name, grp.Name, len(repos))
			for _, r := range repos {
				add(groupRepo(r, grp, name, pcfg.Token, root))
			}
			return nil
		})
	}
	_ = g.Wait()
}

// standaloneRepo computes the desired entry for an explicit repo URL. Its
// local_dir replaces the default target directory entirely.
func standaloneRepo(r config.Repo, root string) DesiredRepo {
	name := RepoName(r.URL)
	dir := root
	if r.LocalDir != "" {
		if filepath.IsAbs(r.LocalDir) {
			dir = r.LocalDir
		} else {
			dir = filepath.Join(root, r.LocalDir)
		}
	}
	return DesiredRepo{
		Name:      name,
		URL:       r.URL,
		LocalPath: filepath.Join(dir, name),
	}
}

// groupRepo computes the desired entry for a provider-listed repo. The
// group's local_dir prefixes the provider's natural nested path.
func groupRepo(r provider.Repo, grp config.Group, providerName string, token secret.Value, root string) DesiredRepo {
	dir := root
	if grp.LocalDir != "" {
		if filepath.IsAbs(grp.LocalDir) {
			dir = grp.LocalDir
		} else {
			dir = filepath.Join(root, grp.LocalDir)
		}
	}
	local := filepath.Join(dir, filepath.FromSlash(r.PathInGroup))
	return DesiredRepo{
		Name:      RepoName(r.CloneURL),
		URL:       r.CloneURL,
		LocalPath: local,
		Provider:  providerName,
		Token:     token,
	}
}

// RepoName extracts a repository's directory basename from its clone URL.
func RepoName(url string) string {
	trimmed := strings.TrimRight(url, "/")
	trimmed = strings.TrimSuffix(trimmed, ".git")
	if i := strings.LastIndexAny(trimmed, "/:"); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}

// dedupe collapses duplicate local paths. Entries sharing a path with the
// same URL collapse to one; differing URLs exclude every claimant and yield
// a PathConflict diagnostic.
func dedupe(candidates []candidate) (Set, []Diagnostic) {
	byPath := make(map[string][]DesiredRepo)
	for _, c := range candidates {
		byPath[c.repo.LocalPath] = append(byPath[c.repo.LocalPath], c.repo)
	}

	paths := make([]string, 0, len(byPath))
	for p := range byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var set Set
	var diagnostics []Diagnostic
	for _, p := range paths {
		claimants := byPath[p]
		urls := uniqueURLs(claimants)
		if len(urls) > 1 {
			diagnostics = append(diagnostics, Diagnostic{
				Err: &PathConflict{LocalPath: p, URLs: urls},
			})
			continue
		}
		set = append(set, claimants[0])
	}
	return set, diagnostics
}

func uniqueURLs(repos []DesiredRepo) []string {
	seen := make(map[string]bool)
	var urls []string
	for _, r := range repos {
		if !seen[r.URL] {
			seen[r.URL] = true
			urls = append(urls, r.URL)
		}
	}
	sort.Strings(urls)
	return urls
}
