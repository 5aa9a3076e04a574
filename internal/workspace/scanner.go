// Package workspace inspects the local directory tree to determine, for
// every path that should host a repository, what actually occupies it.
//
// The scan is strictly read-only. It looks at directory emptiness and Git
// metadata (via go-git) and nothing else: the working tree is never opened,
// so a dirty checkout is indistinguishable from a clean one and stays
// untouched either way.
package workspace

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"golang.org/x/sync/errgroup"

	"github.com/paulwelden/git-ranger/internal/discovery"
	"github.com/paulwelden/git-ranger/pkg/logging"
)

// Kind classifies what occupies a candidate local path.
type Kind int

const (
	// Absent: the path does not exist.
	Absent Kind = iota
	// EmptyDir: the path exists, is a directory, and is empty.
	EmptyDir
	// Repo: a Git working copy bound to the desired remote.
	Repo
	// RepoMismatch: a Git working copy bound to a different remote.
	RepoMismatch
	// Occupied: non-empty content without Git metadata. Never touched.
	Occupied
)

func (k Kind) String() string {
	switch k {
	case Absent:
		return "absent"
	case EmptyDir:
		return "empty directory"
	case Repo:
		return "git repository"
	case RepoMismatch:
		return "git repository with mismatched remote"
	case Occupied:
		return "occupied by unrelated content"
	default:
		return "unknown"
	}
}

// State is the observed status of one local path.
type State struct {
	Kind Kind

	// RemoteURL is the origin URL of an existing working copy, set for
	// Repo and RepoMismatch.
	RemoteURL string

	// Err records a filesystem failure while inspecting the path. A path
	// that cannot be inspected is never acted upon.
	Err error
}

// Scan inspects every desired local path concurrently with bounded
// parallelism and returns the per-path state. It never mutates the
// filesystem.
func Scan(ctx context.Context, set discovery.Set, parallel int) map[string]State {
	if parallel <= 0 {
		parallel = 4
	}

	var mu sync.Mutex
	states := make(map[string]State, len(set))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for _, repo := range set {
		g.Go(func() error {
			st := inspect(repo.LocalPath, repo.URL)
			mu.Lock()
			states[repo.LocalPath] = st
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	logging.Debug("Workspace", "scanned %d paths", len(states))
	return states
}

func inspect(path, desiredURL string) State {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return State{Kind: Absent}
	}
	if err != nil {
		return State{Kind: Occupied, Err: err}
	}
	if !info.IsDir() {
		return State{Kind: Occupied}
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return State{Kind: Occupied, Err: err}
	}
	if len(entries) == 0 {
		return State{Kind: EmptyDir}
	}

	repo, err := git.PlainOpen(path)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return State{Kind: Occupied}
	}
	if err != nil {
		return State{Kind: Occupied, Err: err}
	}

	remote, err := repo.Remote(git.DefaultRemoteName)
	if errors.Is(err, git.ErrRemoteNotFound) {
		return State{Kind: RepoMismatch}
	}
	if err != nil {
		return State{Kind: Occupied, Err: err}
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return State{Kind: RepoMismatch}
	}
	if SameRemote(urls[0], desiredURL) {
		return State{Kind: Repo, RemoteURL: urls[0]}
	}
	return State{Kind: RepoMismatch, RemoteURL: urls[0]}
}

var scpLikeRE = regexp.MustCompile(`^(?:[\w.-]+@)?([\w.-]+):(.+)$`)

// SameRemote reports whether two remote URLs point at the same repository,
// tolerating credential-embedded forms, ssh/https scheme differences, and a
// trailing .git suffix.
func SameRemote(a, b string) bool {
	return normalizeRemote(a) == normalizeRemote(b)
}

func normalizeRemote(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSuffix(s, ".git")

	if !strings.Contains(s, "://") {
		// scp-like syntax: git@host:path
		if m := scpLikeRE.FindStringSubmatch(s); m != nil {
			return strings.ToLower(m[1]) + "/" + strings.Trim(m[2], "/")
		}
		return s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return s
	}
	// url.Parse drops nothing, but u.Host excludes userinfo, which is how
	// credential-embedded and bare forms of the same remote compare equal.
	return strings.ToLower(u.Host) + "/" + strings.Trim(u.Path, "/")
}
