package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWriteTemplate(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteTemplate(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultConfigFileName), path)

	// The template must load through our own parser and validator.
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Contains(t, cfg.Providers, "gitlab")
	assert.NotEmpty(t, cfg.Groups["gitlab"])
	assert.NotEmpty(t, cfg.Repos)
}

func TestWriteTemplate_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()

	_, err := WriteTemplate(dir)
	require.NoError(t, err)

	_, err = WriteTemplate(dir)
	require.ErrorIs(t, err, ErrConfigExists)
}

func TestTemplate_HasRequiredSections(t *testing.T) {
	var parsed map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(defaultTemplate), &parsed))

	assert.Contains(t, parsed, "providers")
	assert.Contains(t, parsed, "groups")
	assert.Contains(t, parsed, "repos")
}

func TestTemplate_NoLiteralTokens(t *testing.T) {
	cfg, err := Load(mustWriteTemplate(t))
	require.NoError(t, err)

	for name, p := range cfg.Providers {
		if !p.Token.IsZero() {
			assert.True(t, p.Token.IsRef(), "template token for %q must be an env reference", name)
		}
	}
}

func mustWriteTemplate(t *testing.T) string {
	t.Helper()
	path, err := WriteTemplate(t.TempDir())
	require.NoError(t, err)
	return path
}
