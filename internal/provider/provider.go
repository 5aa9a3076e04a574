package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/paulwelden/git-ranger/internal/config"
)

// Repo is a remote repository descriptor returned by a provider listing.
type Repo struct {
	// CloneURL is the canonical HTTPS clone URL.
	CloneURL string

	// PathInGroup is the repository path relative to the listed group,
	// including any subgroup components ("subteam/service").
	PathInGroup string
}

// Client is the capability set every hosting provider exposes. Pagination
// and subgroup traversal happen internally; callers always see one flat
// slice.
type Client interface {
	// ListGroupRepos enumerates the repositories of a group or org. With
	// recursive set, nested subgroups are traversed transitively on
	// providers that have them.
	ListGroupRepos(ctx context.Context, group string, recursive bool) ([]Repo, error)
}

// Factory creates a provider client for a configured endpoint. Discovery
// depends on this indirection so tests can substitute fake providers.
type Factory func(kind config.ProviderKind, host, token string) (Client, error)

// ErrorKind classifies provider failures.
type ErrorKind int

const (
	// KindNetwork covers transport failures and unclassified HTTP errors.
	KindNetwork ErrorKind = iota
	// KindAuth means the token was rejected (401/403).
	KindAuth
	// KindNotFound means the group or org does not exist (404).
	KindNotFound
	// KindRateLimited means the provider asked us to back off (429).
	// The only retryable kind.
	KindRateLimited
	// KindTraversal means a recursive walk exceeded its safety ceiling,
	// which indicates a malformed or self-referential provider response.
	KindTraversal
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "authentication failed"
	case KindNotFound:
		return "not found"
	case KindRateLimited:
		return "rate limited"
	case KindTraversal:
		return "traversal limit exceeded"
	default:
		return "network error"
	}
}

// Error is the uniform failure type for provider operations.
type Error struct {
	Kind     ErrorKind
	Provider string
	Subject  string
	Err      error

	// RetryAfter is the server-requested delay for rate-limited responses,
	// zero when the server did not specify one.
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	if e.Subject != "" {
		msg = fmt.Sprintf("%s: %s (%s)", e.Provider, e.Kind, e.Subject)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// classifyStatus maps an HTTP status code to an ErrorKind.
func classifyStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindNetwork
	}
}

// retryAfter parses a Retry-After header expressed in seconds.
func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	var secs int
	if _, err := fmt.Sscanf(h.Get("Retry-After"), "%d", &secs); err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// New selects the client implementation for a configured provider kind.
func New(kind config.ProviderKind, host, token string) (Client, error) {
	switch kind {
	case config.KindGitLab:
		return newGitLab(host, token)
	case config.KindGitHub:
		return newGitHub(host, token)
	case config.KindGitea:
		return newGitea(host, token)
	default:
		return nil, fmt.Errorf("unknown provider kind %q", kind)
	}
}
