package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
providers:
  gitlab:
    host: "https://gitlab.example.com"
    token: "${GITLAB_TOKEN}"
  github:
    token: "${GITHUB_TOKEN}"

groups:
  gitlab:
    - name: "my-org/my-team"
      local_dir: "team-projects"
      recursive: true
  github:
    - name: "my-github-org"

repos:
  - url: "git@github.com:example/standalone-tool.git"
    local_dir: "standalone"
  - url: "https://gitlab.example.com/user/project.git"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Providers, 2)
	gl := cfg.Providers["gitlab"]
	assert.Equal(t, "https://gitlab.example.com", gl.Host)
	assert.Equal(t, "${GITLAB_TOKEN}", gl.Token.Raw())
	assert.True(t, gl.Token.IsRef())

	require.Len(t, cfg.Groups["gitlab"], 1)
	g := cfg.Groups["gitlab"][0]
	assert.Equal(t, "my-org/my-team", g.Name)
	assert.Equal(t, "team-projects", g.LocalDir)
	assert.True(t, g.Recursive)

	require.Len(t, cfg.Groups["github"], 1)
	assert.False(t, cfg.Groups["github"][0].Recursive)

	require.Len(t, cfg.Repos, 2)
	assert.Equal(t, "standalone", cfg.Repos[0].LocalDir)
	assert.Empty(t, cfg.Repos[1].LocalDir)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), DefaultConfigFileName))
	require.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "providers: [this is: not valid\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing configuration")
}

func TestLoad_UnsetTokenIsNotAnError(t *testing.T) {
	// Loading must succeed with referenced variables unset; resolution is
	// deferred until a token is actually used.
	path := writeConfig(t, `
providers:
  gitlab:
    host: "https://gitlab.example.com"
    token: "${RANGER_TEST_DEFINITELY_UNSET}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	_, resolveErr := cfg.Providers["gitlab"].Token.Resolve()
	assert.Error(t, resolveErr)
}

func TestValidate_UnknownKind(t *testing.T) {
	cfg := Config{
		Providers: map[string]Provider{
			"sourcehut": {Host: "https://git.sr.ht"},
		},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestValidate_KindDefaultsFromName(t *testing.T) {
	cfg := Config{
		Providers: map[string]Provider{
			"gitlab":         {},
			"company-gitlab": {Kind: KindGitLab, Host: "https://gitlab.internal"},
		},
	}
	require.NoError(t, cfg.Validate())

	_, kind, ok := cfg.ProviderFor("company-gitlab")
	require.True(t, ok)
	assert.Equal(t, KindGitLab, kind)
}

func TestValidate_GroupForUndefinedProvider(t *testing.T) {
	cfg := Config{
		Groups: map[string][]Group{
			"gitlab": {{Name: "some-group"}},
		},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined provider")
}

func TestValidate_RepoWithoutURL(t *testing.T) {
	cfg := Config{Repos: []Repo{{LocalDir: "somewhere"}}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no url")
}
