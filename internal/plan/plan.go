// Package plan computes the reconciling actions between the desired
// repository set and the observed workspace state.
//
// Planning is a pure function: no I/O, no side effects, and identical
// inputs always produce an identical plan. That determinism is what makes
// repeated sync runs safe to issue indefinitely.
package plan

import (
	"fmt"

	"github.com/paulwelden/git-ranger/internal/discovery"
	"github.com/paulwelden/git-ranger/internal/workspace"
)

// Op is the kind of reconciling action for one repository.
type Op int

const (
	// OpClone creates a new working copy at the local path.
	OpClone Op = iota
	// OpFetch updates remote-tracking refs of an existing working copy.
	OpFetch
	// OpSkip leaves the repository alone and only reports why.
	OpSkip
	// OpConflict marks a path the engine refuses to touch.
	OpConflict
)

func (o Op) String() string {
	switch o {
	case OpClone:
		return "clone"
	case OpFetch:
		return "fetch"
	case OpSkip:
		return "skip"
	case OpConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Action pairs a desired repository with the single operation that
// reconciles it. Exactly one action exists per desired repository; actions
// for distinct paths are independent of each other.
type Action struct {
	Repo   discovery.DesiredRepo
	Op     Op
	Reason string
}

// Decide maps one repository's observed state to its reconciling action.
//
//	Absent       -> Clone
//	EmptyDir     -> Clone
//	Repo         -> Fetch
//	RepoMismatch -> Conflict (never clone or fetch over a foreign remote)
//	Occupied     -> Conflict (never overwrite unrelated content)
//
// A path whose state could not be inspected is also a conflict: without a
// trustworthy observation no mutation is safe.
func Decide(repo discovery.DesiredRepo, state workspace.State) Action {
	if state.Err != nil {
		return Action{Repo: repo, Op: OpConflict, Reason: fmt.Sprintf("cannot inspect %s: %v", repo.LocalPath, state.Err)}
	}

	switch state.Kind {
	case workspace.Absent, workspace.EmptyDir:
		return Action{Repo: repo, Op: OpClone}
	case workspace.Repo:
		return Action{Repo: repo, Op: OpFetch}
	case workspace.RepoMismatch:
		reason := fmt.Sprintf("existing repository tracks %s, expected %s", state.RemoteURL, repo.URL)
		if state.RemoteURL == "" {
			reason = "existing repository has no origin remote"
		}
		return Action{Repo: repo, Op: OpConflict, Reason: reason}
	case workspace.Occupied:
		return Action{Repo: repo, Op: OpConflict, Reason: fmt.Sprintf("%s contains unrelated content", repo.LocalPath)}
	default:
		return Action{Repo: repo, Op: OpConflict, Reason: fmt.Sprintf("unrecognized state %v", state.Kind)}
	}
}

// Build produces the full action plan, one action per desired repository in
// set order. Paths missing from states are treated as uninspected and
// surface as conflicts rather than mutations.
func Build(set discovery.Set, states map[string]workspace.State) []Action {
	actions := make([]Action, 0, len(set))
	for _, repo := range set {
		state, ok := states[repo.LocalPath]
		if !ok {
			state = workspace.State{Err: fmt.Errorf("path was not scanned")}
		}
		actions = append(actions, Decide(repo, state))
	}
	return actions
}
