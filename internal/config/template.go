package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrConfigExists is returned by WriteTemplate when the target file is
// already present. init never overwrites an existing configuration.
var ErrConfigExists = errors.New("configuration file already exists")

const defaultTemplate = `# Git Ranger Configuration
# This file defines which repositories to manage and where to sync them locally.

# SECURITY: Never commit tokens directly to this file!
# Use environment variables to keep credentials secure.
# Syntax: ${ENV_VAR_NAME} - reads from environment variable
# Example: token: "${GITLAB_TOKEN}"

# Provider configurations (GitLab, GitHub, Gitea)
providers:
  # GitLab configuration
  gitlab:
    host: "https://gitlab.example.com"  # Your GitLab instance URL
    token: "${GITLAB_TOKEN}"            # Set via: export GITLAB_TOKEN="your-token-here"

  # GitHub configuration (uncomment to use)
  # github:
  #   token: "${GITHUB_TOKEN}"          # Set via: export GITHUB_TOKEN="your-token-here"

# Groups to sync (provider-specific)
groups:
  # GitLab groups
  gitlab:
    - name: "my-org/my-team"            # Group path on GitLab
      local_dir: "team-projects"        # Where to clone repos locally
      recursive: true                   # Include nested subgroups

    # - name: "another-group"
    #   local_dir: "other-projects"
    #   recursive: false

  # GitHub organizations (uncomment to use)
  # github:
  #   - name: "my-github-org"
  #     local_dir: "github-projects"

# Individual repositories to sync
repos:
  # Standalone repos not part of a group
  - url: "git@github.com:example/standalone-tool.git"
    local_dir: "standalone"

  # - url: "https://gitlab.example.com/user/project.git"
  #   local_dir: "special-projects"

# Configuration notes:
# - local_dir is optional and can be relative or absolute
# - If local_dir is not specified, repos clone to the current directory
# - recursive: true will discover all nested subgroups (GitLab)
# - Run 'git-ranger sync' after editing this file to apply changes
#
# Setting up tokens:
#   Linux/macOS (bash/zsh):
#     export GITLAB_TOKEN="your-token-here"
#     export GITHUB_TOKEN="your-token-here"
#
#   Windows (PowerShell):
#     $env:GITLAB_TOKEN = "your-token-here"
#     $env:GITHUB_TOKEN = "your-token-here"
#
#   Or add to your shell profile (~/.bashrc, ~/.zshrc, or PowerShell profile)
#   to persist across sessions.
#
# IMPORTANT: Add ranger.yaml to .gitignore to prevent accidental commits!
`

// WriteTemplate writes the commented starter ranger.yaml into dir and
// returns its path. Fails with ErrConfigExists when the file is present.
func WriteTemplate(dir string) (string, error) {
	path := filepath.Join(dir, DefaultConfigFileName)

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %s", ErrConfigExists, path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("checking for existing configuration: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultTemplate), 0o644); err != nil {
		return "", fmt.Errorf("writing configuration template: %w", err)
	}
	return path, nil
}
