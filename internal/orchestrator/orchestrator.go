// Package orchestrator wires the sync pipeline together: discover the
// desired repository set, scan the workspace, plan, execute, and aggregate
// everything into a report. It owns sequencing and scoping but none of the
// per-stage logic, and it never decides process exit codes.
package orchestrator

import (
	"context"
	"strings"

	"github.com/paulwelden/git-ranger/internal/config"
	"github.com/paulwelden/git-ranger/internal/discovery"
	"github.com/paulwelden/git-ranger/internal/executor"
	"github.com/paulwelden/git-ranger/internal/gitclient"
	"github.com/paulwelden/git-ranger/internal/plan"
	"github.com/paulwelden/git-ranger/internal/provider"
	"github.com/paulwelden/git-ranger/internal/workspace"
	"github.com/paulwelden/git-ranger/pkg/logging"
)

// Options control one engine run.
type Options struct {
	// Target restricts the run to config entries whose group name or repo
	// URL contains this substring. Empty means everything.
	Target string

	// DryRun reports planned actions without performing them.
	DryRun bool

	// Parallel bounds concurrent git and scan operations.
	Parallel int
}

// Engine runs the sync pipeline over one configuration.
type Engine struct {
	cfg     config.Config
	root    string
	factory provider.Factory
	git     gitclient.Client
	opts    Options
}

// New assembles an engine. root is the workspace root directory, normally
// the directory holding the configuration file.
func New(cfg config.Config, root string, factory provider.Factory, git gitclient.Client, opts Options) *Engine {
	return &Engine{cfg: cfg, root: root, factory: factory, git: git, opts: opts}
}

// Entry is one repository's row in the report.
type Entry struct {
	Repo    discovery.DesiredRepo
	Op      plan.Op
	Outcome executor.Outcome
	Reason  string
}

// Report aggregates one engine run: one entry per desired repository in
// stable path order, plus discovery-time diagnostics.
type Report struct {
	Entries     []Entry
	Diagnostics []discovery.Diagnostic
}

// Failed reports whether anything in the run needs the operator's
// attention: a failed or conflicted entry, or a discovery diagnostic.
func (r *Report) Failed() bool {
	for _, e := range r.Entries {
		if e.Outcome == executor.OutcomeFailed || e.Outcome == executor.OutcomeConflict {
			return true
		}
	}
	return len(r.Diagnostics) > 0
}

// Counts tallies entries by outcome for summary lines.
func (r *Report) Counts() map[executor.Outcome]int {
	counts := make(map[executor.Outcome]int)
	for _, e := range r.Entries {
		counts[e.Outcome]++
	}
	return counts
}

// Sync runs the full pipeline. The returned error covers engine-level
// problems only; per-repository failures live in the report.
func (e *Engine) Sync(ctx context.Context) (*Report, error) {
	return e.run(ctx, e.opts.DryRun)
}

// Status inspects the workspace without mutating it. Entries carry the
// action the next sync would take (clone for missing, fetch for cloned,
// conflict otherwise).
func (e *Engine) Status(ctx context.Context) (*Report, error) {
	return e.run(ctx, true)
}

// List resolves the desired repository set without touching the workspace.
func (e *Engine) List(ctx context.Context) (discovery.Set, []discovery.Diagnostic) {
	return discovery.Discover(ctx, scopeConfig(e.cfg, e.opts.Target), e.root, e.factory)
}

// ListLocal resolves only the explicitly configured repos, with no provider
// calls and no token resolution.
func (e *Engine) ListLocal() discovery.Set {
	cfg := scopeConfig(e.cfg, e.opts.Target)
	cfg.Groups = nil
	set, _ := discovery.Discover(context.Background(), cfg, e.root, nil)
	return set
}

func (e *Engine) run(ctx context.Context, dryRun bool) (*Report, error) {
	scoped := scopeConfig(e.cfg, e.opts.Target)
	if e.opts.Target != "" {
		logging.Info("Engine", "scoped to target %q: %d group lists, %d repos",
			e.opts.Target, groupCount(scoped), len(scoped.Repos))
	}

	set, diags := discovery.Discover(ctx, scoped, e.root, e.factory)
	states := workspace.Scan(ctx, set, e.opts.Parallel)
	actions := plan.Build(set, states)
	results := executor.Run(ctx, actions, e.git, executor.Options{
		DryRun:   dryRun,
		Parallel: e.opts.Parallel,
	})

	report := &Report{Diagnostics: diags}
	for _, r := range results {
		report.Entries = append(report.Entries, Entry{
			Repo:    r.Action.Repo,
			Op:      r.Action.Op,
			Outcome: r.Outcome,
			Reason:  r.Reason,
		})
	}
	return report, nil
}

// scopeConfig narrows the configuration to the target: groups whose name
// contains the target and explicit repos whose URL contains it. Paths
// outside the scope are never scanned or touched.
func scopeConfig(cfg config.Config, target string) config.Config {
	if target == "" {
		return cfg
	}

	scoped := config.Config{Providers: cfg.Providers}
	for name, groups := range cfg.Groups {
		var kept []config.Group
		for _, grp := range groups {
			if strings.Contains(grp.Name, target) {
				kept = append(kept, grp)
			}
		}
		if len(kept) > 0 {
			if scoped.Groups == nil {
				scoped.Groups = make(map[string][]config.Group)
			}
			scoped.Groups[name] = kept
		}
	}
	for _, repo := range cfg.Repos {
		if strings.Contains(repo.URL, target) {
			scoped.Repos = append(scoped.Repos, repo)
		}
	}
	return scoped
}

func groupCount(cfg config.Config) int {
	n := 0
	for _, groups := range cfg.Groups {
		n += len(groups)
	}
	return n
}
