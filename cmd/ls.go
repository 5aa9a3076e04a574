package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/paulwelden/git-ranger/internal/discovery"
	"github.com/paulwelden/git-ranger/internal/gitclient"
	"github.com/paulwelden/git-ranger/internal/orchestrator"
	"github.com/paulwelden/git-ranger/internal/provider"
)

// lsLocalOnly skips provider calls and lists only explicit repo entries.
var lsLocalOnly bool

// lsCmd lists the resolved repository set.
var lsCmd = &cobra.Command{
	Use:   "ls [target]",
	Short: "List declared repositories and their local paths",
	Long: `Resolves the declared repository set, including repositories discovered
from provider groups, and prints each with its target local path. Use
--local-only to list only explicitly declared repos without any provider
calls.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLs,
}

func runLs(cmd *cobra.Command, args []string) error {
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

	var set discovery.Set
	var diags []discovery.Diagnostic
	if lsLocalOnly {
		set = engine.ListLocal()
	} else {
		set, diags = engine.List(cmd.Context())
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	for _, repo := range set {
		fmt.Fprintf(w, "%s\t%s\t%s\n", repo.Name, repo.URL, repo.LocalPath)
	}
	w.Flush()

	for _, diag := range diags {
		fmt.Fprintf(out, "%s %s\n", color.RedString("✗"), diag)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(lsCmd)

	lsCmd.Flags().BoolVar(&lsLocalOnly, "local-only", false, "List only explicitly declared repos, without provider calls")
}
