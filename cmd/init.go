package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paulwelden/git-ranger/internal/config"
)

// initDir is the directory the starter configuration is written into.
var initDir string

// initCmd writes a commented starter configuration for a new workspace.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter " + config.DefaultConfigFileName + " into the workspace",
	Long: `Creates a commented ` + config.DefaultConfigFileName + ` in the target directory as a starting
point for declaring providers, groups, and repositories. An existing
configuration file is never overwritten.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	path, err := config.WriteTemplate(initDir)
	if errors.Is(err, config.ErrConfigExists) {
		return fmt.Errorf("%w (remove it first or edit it in place)", err)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	fmt.Fprintln(cmd.OutOrStdout(), "Edit it to declare your providers and repositories, then run 'git-ranger sync'.")
	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initDir, "dir", ".", "Directory to write the configuration into")
}
