// Package provider abstracts the hosting providers git-ranger can discover
// repositories from.
//
// Each provider kind (GitLab, GitHub, Gitea) implements the Client interface:
// a single ListGroupRepos capability that hides the provider's pagination and
// group-nesting semantics behind one flat result slice. Implementations are
// selected by configuration kind through New; callers never inspect the
// concrete type.
//
// # Traversal
//
// GitLab subgroup recursion uses an explicit worklist over subgroup IDs with
// a node-count ceiling, and every pagination loop is bounded by a page
// ceiling, so a malformed or self-referential provider response fails with a
// traversal error instead of looping unboundedly. GitHub and Gitea
// organizations are flat and ignore the recursive flag.
//
// # Failures
//
// All failures surface as *Error with a classified Kind (auth, not-found,
// rate-limited, network, traversal). Rate-limited calls are retried with
// exponential backoff up to a bounded attempt count, honoring a
// server-provided Retry-After; every other failure propagates immediately
// and aborts only the affected group's discovery.
package provider
