package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"did/internal/errs"
)

const sample = `
[general]
email = Some Body <someone@example.org>, other@example.org
width = 60
plugins = /tmp/extra.toml

[header]
type = header
highlights = Highlights

[gh]
type = github
url = https://api.github.com
login = somebody
`

func TestLoadString(t *testing.T) {
	cfg, err := LoadString(sample)
	require.NoError(t, err)

	general, err := cfg.General()
	require.NoError(t, err)
	assert.Equal(t, []string{"Some Body <someone@example.org>", "other@example.org"}, general.Emails)
	assert.Equal(t, 60, general.Width)
	assert.Equal(t, 60, general.SeparatorWidth)
	assert.Equal(t, DefaultSeparator, general.Separator)
	assert.Equal(t, []string{"/tmp/extra.toml"}, general.Plugins)
}

func TestGeneralDefaults(t *testing.T) {
	cfg, err := LoadString("[general]\nemail = x@example.org\n")
	require.NoError(t, err)
	general, err := cfg.General()
	require.NoError(t, err)
	assert.Equal(t, MaxWidth, general.Width)
	assert.Equal(t, MaxWidth, general.SeparatorWidth)
	assert.Empty(t, general.Plugins)
}

func TestSectionsKeepOrder(t *testing.T) {
	cfg, err := LoadString(sample)
	require.NoError(t, err)

	sections := cfg.Sections()
	require.Len(t, sections, 2)
	assert.Equal(t, "header", sections[0].Name)
	assert.Equal(t, "gh", sections[1].Name)
}

func TestSectionLookups(t *testing.T) {
	cfg, err := LoadString(sample)
	require.NoError(t, err)

	gh, ok := cfg.Section("gh")
	require.True(t, ok)
	assert.Equal(t, "github", gh.Type())

	url, err := gh.Require("url")
	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com", url)

	_, err = gh.Require("token")
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
	assert.Contains(t, err.Error(), "[gh]")

	byKind := cfg.SectionsByKind("github")
	require.Len(t, byKind, 1)
	assert.Equal(t, "gh", byKind[0].Name)
}

func TestAliasValueSurvivesSemicolons(t *testing.T) {
	cfg, err := LoadString("[general]\nemail = someone@example.org; gh: other\n")
	require.NoError(t, err)
	general, err := cfg.General()
	require.NoError(t, err)
	require.Len(t, general.Emails, 1)
	assert.Equal(t, "someone@example.org; gh: other", general.Emails[0])
}

func TestMissingGeneral(t *testing.T) {
	_, err := LoadString("[gh]\ntype = github\n")
	require.Error(t, err)
	var cfe *errs.ConfigFileError
	assert.ErrorAs(t, err, &cfe)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path())

	_, err = Load(filepath.Join(dir, "missing"))
	var cfe *errs.ConfigFileError
	require.ErrorAs(t, err, &cfe)
}

func TestInvalidWidth(t *testing.T) {
	cfg, err := LoadString("[general]\nwidth = wide\n")
	require.NoError(t, err)
	_, err = cfg.General()
	assert.True(t, errs.IsConfig(err))
}
