package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/paulwelden/git-ranger/internal/executor"
	"github.com/paulwelden/git-ranger/internal/gitclient"
	"github.com/paulwelden/git-ranger/internal/orchestrator"
	"github.com/paulwelden/git-ranger/internal/provider"
)

// syncDryRun reports planned actions without performing them.
var syncDryRun bool

// syncParallel bounds concurrent clone/fetch operations.
var syncParallel int

// syncCmd reconciles the workspace against the configuration.
var syncCmd = &cobra.Command{
	Use:   "sync [target]",
	Short: "Clone missing repositories and fetch existing ones",
	Long: `Resolves the declared repository set, inspects the workspace, and
reconciles the difference: missing repositories are cloned, existing ones
are fetched, and anything unexpected (foreign remotes, occupied paths) is
reported as a conflict and left untouched.

An optional target narrows the run to groups whose name, or repos whose
URL, contains the given substring.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

// errSyncFailed signals a completed run with failed or conflicted entries.
// The report has already been rendered when it is returned.
var errSyncFailed = errors.New("sync completed with failures")

func runSync(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig()
	if err != nil {
		return err
	}

	var target string
	if len(args) == 1 {
		target = args[0]
	}

	engine := orchestrator.New(cfg, root, provider.New, gitclient.New(), orchestrator.Options{
		Target:   target,
		DryRun:   syncDryRun,
		Parallel: syncParallel,
	})

	report, err := engine.Sync(cmd.Context())
	if err != nil {
		return err
	}

	renderReport(cmd.OutOrStdout(), report)
	if report.Failed() {
		return errSyncFailed
	}
	return nil
}

func renderReport(out io.Writer, report *orchestrator.Report) {
	for _, entry := range report.Entries {
		switch entry.Outcome {
		case executor.OutcomeSuccess:
			fmt.Fprintf(out, "%s %s (%s)\n", color.GreenString("✓"), entry.Repo.LocalPath, entry.Op)
		case executor.OutcomeDryRun:
			fmt.Fprintf(out, "%s %s (would %s)\n", color.CyanString("~"), entry.Repo.LocalPath, entry.Op)
		case executor.OutcomeSkipped:
			fmt.Fprintf(out, "- %s (skipped: %s)\n", entry.Repo.LocalPath, entry.Reason)
		case executor.OutcomeConflict:
			fmt.Fprintf(out, "%s %s: %s\n", color.YellowString("!"), entry.Repo.LocalPath, entry.Reason)
		case executor.OutcomeFailed:
			fmt.Fprintf(out, "%s %s: %s\n", color.RedString("✗"), entry.Repo.LocalPath, entry.Reason)
		}
	}

	for _, diag := range report.Diagnostics {
		fmt.Fprintf(out, "%s %s\n", color.RedString("✗"), diag)
	}

	counts := report.Counts()
	fmt.Fprintf(out, "\n%d synced, %d conflicts, %d failed",
		counts[executor.OutcomeSuccess]+counts[executor.OutcomeDryRun],
		counts[executor.OutcomeConflict],
		counts[executor.OutcomeFailed]+len(report.Diagnostics))
	if counts[executor.OutcomeDryRun] > 0 {
		fmt.Fprint(out, " (dry run)")
	}
	fmt.Fprintln(out)
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().BoolVarP(&syncDryRun, "dry-run", "n", false, "Report planned actions without performing them")
	syncCmd.Flags().IntVarP(&syncParallel, "parallel", "j", 0, "Maximum concurrent git operations (default 4)")
}
