package main

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/club-odds/db"
)

func TestParseSteps(t *testing.T) {
	steps, err := parseSteps(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, steps)

	steps, err = parseSteps([]string{" 3 "})
	require.NoError(t, err)
	assert.Equal(t, 3, steps)

	_, err = parseSteps([]string{"0"})
	require.Error(t, err)
	_, err = parseSteps([]string{"x"})
	require.Error(t, err)
}

func TestParseVersionAndTarget(t *testing.T) {
	v, err := parseVersion("1")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = parseVersion("-1")
	require.Error(t, err)

	target, err := parseTarget("2")
	require.NoError(t, err)
	assert.Equal(t, uint(2), target)

	_, err = parseTarget("-2")
	require.Error(t, err)
}

func TestResolveMigrationsDir(t *testing.T) {
	dir := t.TempDir()
	got, err := resolveMigrationsDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	_, err = resolveMigrationsDir(dir + "/missing")
	require.Error(t, err)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(db.Migrations, db.MigrationsRoot)
	require.NoError(t, err)

	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Positive(t, ups)
	assert.Equal(t, ups, downs)
}

func TestRootCmd_RequiresDBURL(t *testing.T) {
	t.Setenv("DB_URL", "")
	root := newRootCmd()
	root.SetArgs([]string{"version"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_URL")
}
