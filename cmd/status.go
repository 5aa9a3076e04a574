package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/paulwelden/git-ranger/internal/gitclient"
	"github.com/paulwelden/git-ranger/internal/orchestrator"
	"github.com/paulwelden/git-ranger/internal/plan"
	"github.com/paulwelden/git-ranger/internal/provider"
)

// statusCmd inspects the workspace without changing it.
var statusCmd = &cobra.Command{
	Use:   "status [target]",
	Short: "Show which declared repositories are cloned, missing, or conflicted",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig()
	if err != nil {
		return err
	}

	var target string
	if len(args) == 1 {
		target = args[0]
	}

	engine := orchestrator.New(cfg, root, provider.New, gitclient.New(), orchestrator.Options{
		Target: target,
	})

	report, err := engine.Status(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	cloned, missing, conflicted := 0, 0, 0
	for _, entry := range report.Entries {
		switch entry.Op {
		case plan.OpFetch:
			cloned++
			fmt.Fprintf(out, "%s %s\n", color.GreenString("✓"), entry.Repo.LocalPath)
		case plan.OpClone:
			missing++
			fmt.Fprintf(out, "%s %s (missing)\n", color.CyanString("•"), entry.Repo.LocalPath)
		default:
			conflicted++
			fmt.Fprintf(out, "%s %s: %s\n", color.YellowString("!"), entry.Repo.LocalPath, entry.Reason)
		}
	}
	for _, diag := range report.Diagnostics {
		fmt.Fprintf(out, "%s %s\n", color.RedString("✗"), diag)
	}

	fmt.Fprintf(out, "\n%d cloned, %d missing, %d conflicts\n", cloned, missing, conflicted)
	return nil
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
