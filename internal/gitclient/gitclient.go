// Package gitclient is the Git capability the executor drives: clone a
// working copy, or fetch-only update an existing one. The engine treats it
// as an opaque external call and never speaks Git's wire protocol itself.
package gitclient

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/paulwelden/git-ranger/pkg/logging"
)

// Client is the capability set the executor needs. token may be empty for
// anonymous access.
type Client interface {
	// Clone creates a working copy of url at dest.
	Clone(ctx context.Context, url, token, dest string) error

	// Fetch updates remote-tracking refs at path. It never merges,
	// rebases, or touches the working tree.
	Fetch(ctx context.Context, path, token string) error
}

// GoGit implements Client on go-git.
type GoGit struct{}

// New returns the default go-git backed client.
func New() *GoGit {
	return &GoGit{}
}

func (g *GoGit) Clone(ctx context.Context, url, token, dest string) error {
	existedBefore := true
	if _, err := os.Stat(dest); errors.Is(err, os.ErrNotExist) {
		existedBefore = false
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("preparing parent directory for %s: %w", dest, err)
	}

	_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:  url,
		Auth: authFor(url, token),
	})
	if err != nil {
		// Leave no partial working copy behind. Only a directory this
		// clone itself created is removed.
		if !existedBefore {
			if rmErr := os.RemoveAll(dest); rmErr != nil {
				logging.Warn("GitClient", "could not clean up partial clone at %s: %v", dest, rmErr)
			}
		}
		return fmt.Errorf("clone failed: %w", err)
	}
	return nil
}

func (g *GoGit) Fetch(ctx context.Context, path, token string) error {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("opening repository at %s: %w", path, err)
	}

	var remoteURL string
	if remote, err := repo.Remote(git.DefaultRemoteName); err == nil {
		if urls := remote.Config().URLs; len(urls) > 0 {
			remoteURL = urls[0]
		}
	}

	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: git.DefaultRemoteName,
		Auth:       authFor(remoteURL, token),
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}
	return nil
}

// authFor returns token credentials for http(s) remotes. Other transports
// (ssh, file) rely on ambient credentials such as the ssh agent.
func authFor(url, token string) transport.AuthMethod {
	if token == "" {
		return nil
	}
	if strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "http://") {
		return &githttp.BasicAuth{Username: "git", Password: token}
	}
	return nil
}
