// Package logging provides structured logging for git-ranger with unified
// log handling and level filtering.
//
// The package is a thin layer over Go's standard slog package. Every entry
// carries a subsystem identifier so output can be filtered by component:
//
//	import "github.com/paulwelden/git-ranger/pkg/logging"
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Discovery", "resolved %d repositories", n)
//	logging.Debug("Provider", "page %d of group %s", page, group)
//	logging.Error("Executor", err, "clone failed for %s", repo)
//
// Subsystems in use: Config, Discovery, Provider, Workspace, Executor,
// GitClient, Engine.
//
// Secrets never pass through this package: token values are held in
// secret.Value, whose formatting methods only ever expose the unresolved
// form, so a resolved credential cannot be interpolated into a log line.
//
// The package is safe for concurrent use; level filtering happens before
// message formatting so disabled levels cost no allocations.
package logging
