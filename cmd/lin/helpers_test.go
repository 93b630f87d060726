package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lincli/lin/internal/store"
)

func testSession(t *testing.T) *session {
	t.Helper()

	s := store.New(filepath.Join(t.TempDir(), "config.json"))
	doc := store.NewDocument()
	doc.AddOrg("acme", "tok-1")
	org := doc.Orgs["acme"]
	org.CacheTeam(store.TeamMeta{
		ID:   "t-1",
		Key:  "ENG",
		Name: "Engineering",
		Labels: []store.Label{
			{ID: "lb-1", Name: "bug"},
			{ID: "lb-2", Name: "Tech Debt"},
		},
	})
	require.NoError(t, s.Save(doc))

	return &session{Token: "tok-1", Org: "acme", UseCache: true, Store: s}
}

func TestIdentifierTeam(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ENG", identifierTeam("ENG-123"))
	assert.Equal(t, "DES", identifierTeam("DES-7"))
	assert.Equal(t, "plain", identifierTeam("plain"))
}

func TestTeamOrDefault(t *testing.T) {
	t.Parallel()

	sess := testSession(t)

	// Explicit flag wins.
	key, err := sess.teamOrDefault("DES")
	require.NoError(t, err)
	assert.Equal(t, "DES", key)

	// No flag and no default team.
	_, err = sess.teamOrDefault("")
	require.Error(t, err)

	// Default team from the store.
	doc, err := sess.Store.Load()
	require.NoError(t, err)
	org, _ := doc.Org("acme")
	require.NoError(t, org.SetCurrentTeam("ENG"))
	require.NoError(t, sess.Store.Save(doc))

	key, err = sess.teamOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, "ENG", key)
}

func TestResolveLabels(t *testing.T) {
	t.Parallel()

	sess := testSession(t)

	ids, err := resolveLabels(sess, "ENG", []string{"BUG", "tech debt"})
	require.NoError(t, err)
	assert.Equal(t, []string{"lb-1", "lb-2"}, ids)

	_, err = resolveLabels(sess, "ENG", []string{"wontfix"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bug")

	_, err = resolveLabels(sess, "OPS", []string{"bug"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lin sync")
}

func TestNewSession_EnvToken(t *testing.T) {
	t.Setenv(tokenEnvVar, "lin_api_from_env")

	sess, err := newSession(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "lin_api_from_env", sess.Token)
	assert.False(t, sess.UseCache, "env tokens have no stored metadata to resolve against")
	assert.Empty(t, sess.Org)
}

func TestCacheScope_PerCredential(t *testing.T) {
	t.Parallel()

	stored := &session{Org: "acme", Token: "tok-1"}
	assert.Equal(t, "acme", stored.cacheScope())

	envA := &session{Token: "tok-a"}
	envB := &session{Token: "tok-b"}
	assert.NotEqual(t, envA.cacheScope(), envB.cacheScope(),
		"distinct tokens must not share a cache partition")
	assert.Equal(t, envA.cacheScope(), (&session{Token: "tok-a"}).cacheScope())
}

func TestNewSession_ScopesCacheByToken(t *testing.T) {
	t.Setenv(tokenEnvVar, "lin_api_from_env")

	sess, err := newSession(context.Background())
	require.NoError(t, err)
	assert.Contains(t, sess.Cache.Dir(), "token-")
}

func TestNewSession_FlagBeatsEnv(t *testing.T) {
	t.Setenv(tokenEnvVar, "lin_api_from_env")

	apiToken = "lin_api_from_flag"
	defer func() { apiToken = "" }()

	sess, err := newSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "lin_api_from_flag", sess.Token)
}
