// Package discovery turns the declared configuration into the desired
// repository set: one entry per repository that should exist locally, each
// carrying its canonical remote URL, absolute local path, and the owning
// provider's (still unresolved) credential.
//
// Group listings run concurrently across providers and, with a bounded
// fan-out, across groups within a provider. Failures never abort the run:
// an unreachable group or an unset token degrades the set and is reported
// as a Diagnostic, so discovery for one provider cannot block another.
//
// Local paths are unique across the set. When two configuration entries
// resolve to the same path with different URLs, all claimants are excluded
// and a PathConflict diagnostic is emitted; the engine never silently picks
// a winner.
package discovery
