package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lincli/lin/internal/store"
)

func TestIssueList_StateFilterNeedsTeam(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))

	// An org with no synced teams has no current team to scope a
	// state name to.
	s, err := store.Default()
	require.NoError(t, err)
	doc := store.NewDocument()
	doc.AddOrg("acme", "tok-1")
	require.NoError(t, s.Save(doc))

	cmd := newIssueListCmd()
	cmd.SetArgs([]string{"--state", "Done"})

	err = cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot filter by state")
	assert.Contains(t, err.Error(), "no team given")
}
