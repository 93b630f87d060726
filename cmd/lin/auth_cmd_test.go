package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lincli/lin/internal/config"
	"github.com/lincli/lin/internal/store"
)

// authRemote answers the queries auth add issues: token verification
// plus the initial metadata sync.
func authRemote(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query string `json:"query"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		switch {
		case strings.Contains(req.Query, "viewer {"):
			w.Write([]byte(`{"data":{"viewer":{"id":"u-1","name":"Ada"}}}`))
		case strings.Contains(req.Query, "teams {"):
			w.Write([]byte(`{"data":{"teams":{"nodes":[{"id":"t-1","key":"ENG","name":"Engineering","issueEstimationType":"notUsed"}]}}}`))
		case strings.Contains(req.Query, "states(orderBy"):
			w.Write([]byte(`{"data":{"team":{"states":{"nodes":[{"id":"st-1","name":"Backlog","type":"backlog","position":0}]}}}}`))
		case strings.Contains(req.Query, "labels {"):
			w.Write([]byte(`{"data":{"team":{"labels":{"nodes":[]}}}}`))
		case strings.Contains(req.Query, "projects {"):
			w.Write([]byte(`{"data":{"projects":{"nodes":[]}}}`))
		default:
			t.Errorf("unexpected query: %s", req.Query)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAuthAdd_SwitchesToNewOrg(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	srv := authRemote(t)
	prev := cfg
	cfg = &config.Config{Endpoint: srv.URL}
	defer func() { cfg = prev }()

	add := func(org string) {
		t.Helper()
		cmd := newAuthAddCmd()
		cmd.SetArgs([]string{org, "lin_api_" + org})
		require.NoError(t, cmd.Execute())
	}

	add("acme")
	add("globex")

	s, err := store.Default()
	require.NoError(t, err)
	doc, err := s.Load()
	require.NoError(t, err)

	assert.Equal(t, "globex", doc.ActiveOrg, "adding an org must switch to it")
	assert.ElementsMatch(t, []string{"acme", "globex"}, doc.OrgNames())
}
