// Package executor runs a reconciliation plan against the real world. It is
// the only layer that mutates the workspace; everything above it stays pure.
package executor

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/paulwelden/git-ranger/internal/gitclient"
	"github.com/paulwelden/git-ranger/internal/plan"
	"github.com/paulwelden/git-ranger/pkg/logging"
)

// defaultParallel bounds concurrent clone/fetch operations when the caller
// does not pick a limit.
const defaultParallel = 4

// Outcome is what actually happened to one planned action.
type Outcome int

const (
	// OutcomeSuccess means the clone or fetch completed.
	OutcomeSuccess Outcome = iota
	// OutcomeFailed means the action was attempted and failed.
	OutcomeFailed
	// OutcomeSkipped means the action was deliberately not attempted.
	OutcomeSkipped
	// OutcomeConflict means the path was left untouched because the plan
	// refused to mutate it.
	OutcomeConflict
	// OutcomeDryRun means the action was announced but not performed.
	OutcomeDryRun
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeConflict:
		return "conflict"
	case OutcomeDryRun:
		return "dry-run"
	default:
		return "unknown"
	}
}

// Result pairs one planned action with its outcome.
type Result struct {
	Action  plan.Action
	Outcome Outcome
	Reason  string
}

// Options control how a plan is executed.
type Options struct {
	// DryRun reports what would be done without touching the filesystem
	// or the network.
	DryRun bool

	// Parallel is the maximum number of concurrent git operations.
	// Zero or negative means the default.
	Parallel int
}

// Run executes every action in the plan, mutating operations bounded by
// opts.Parallel. Results are returned in plan order regardless of completion
// order. Cancelling ctx stops scheduling new actions; in-flight git
// operations observe the same context.
func Run(ctx context.Context, actions []plan.Action, git gitclient.Client, opts Options) []Result {
	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = defaultParallel
	}

	results := make([]Result, len(actions))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, action := range actions {
		// Conflicts and skips carry straight through without occupying an
		// execution slot.
		switch action.Op {
		case plan.OpConflict:
			results[i] = Result{Action: action, Outcome: OutcomeConflict, Reason: action.Reason}
			continue
		case plan.OpSkip:
			results[i] = Result{Action: action, Outcome: OutcomeSkipped, Reason: action.Reason}
			continue
		}

		if ctx.Err() != nil {
			results[i] = Result{Action: action, Outcome: OutcomeSkipped, Reason: "sync cancelled"}
			continue
		}

		g.Go(func() error {
			results[i] = execute(ctx, action, git, opts.DryRun)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func execute(ctx context.Context, action plan.Action, git gitclient.Client, dryRun bool) Result {
	if ctx.Err() != nil {
		return Result{Action: action, Outcome: OutcomeSkipped, Reason: "sync cancelled"}
	}

	if dryRun {
		logging.Info("Executor", "dry-run: would %s %s at %s", action.Op, action.Repo.URL, action.Repo.LocalPath)
		return Result{Action: action, Outcome: OutcomeDryRun, Reason: fmt.Sprintf("would %s", action.Op)}
	}

	// The credential is resolved here, at the last possible moment. A repo
	// whose provider token is unset fails alone; the rest of the plan is
	// unaffected.
	token, err := action.Repo.Token.Resolve()
	if err != nil {
		return Result{Action: action, Outcome: OutcomeFailed, Reason: err.Error()}
	}

	switch action.Op {
	case plan.OpClone:
		logging.Info("Executor", "cloning %s into %s", action.Repo.URL, action.Repo.LocalPath)
		if err := git.Clone(ctx, action.Repo.URL, token, action.Repo.LocalPath); err != nil {
			return Result{Action: action, Outcome: OutcomeFailed, Reason: err.Error()}
		}
	case plan.OpFetch:
		logging.Info("Executor", "fetching %s", action.Repo.LocalPath)
		if err := git.Fetch(ctx, action.Repo.LocalPath, token); err != nil {
			return Result{Action: action, Outcome: OutcomeFailed, Reason: err.Error()}
		}
	default:
		return Result{Action: action, Outcome: OutcomeFailed, Reason: fmt.Sprintf("unexecutable operation %v", action.Op)}
	}
	return Result{Action: action, Outcome: OutcomeSuccess}
}
