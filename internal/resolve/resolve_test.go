package resolve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lincli/lin/internal/api"
	"github.com/lincli/lin/internal/cache"
	"github.com/lincli/lin/internal/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()

	s := store.New(filepath.Join(t.TempDir(), "config.json"))
	doc := store.NewDocument()
	doc.AddOrg("acme", "tok-1")
	org := doc.Orgs["acme"]
	org.CacheTeam(store.TeamMeta{
		ID:   "t-1",
		Key:  "ENG",
		Name: "Engineering",
		States: []store.WorkflowState{
			{ID: "st-1", Name: "Backlog", Type: "backlog"},
			{ID: "st-2", Name: "In Progress", Type: "started"},
		},
		Estimates: map[string]float64{"xs": 1, "s": 2, "m": 3},
	})
	org.Cache.Projects = map[string]string{"Roadmap": "pr-1"}
	require.NoError(t, s.Save(doc))
	return s
}

func newResolver(t *testing.T) *Resolver {
	return &Resolver{Store: testStore(t), UseCache: true}
}

// recordingSyncer counts refreshes and optionally installs new metadata
// when triggered, standing in for the real orchestrator.
type recordingSyncer struct {
	calls   int
	install func() error
}

func (r *recordingSyncer) Refresh(context.Context) error {
	r.calls++
	if r.install != nil {
		return r.install()
	}
	return nil
}

func TestTeam(t *testing.T) {
	t.Parallel()

	r := newResolver(t)
	id, err := r.Team(context.Background(), "eng")
	require.NoError(t, err)
	assert.Equal(t, "t-1", id)
}

func TestTeam_RemoteIDPassthrough(t *testing.T) {
	t.Parallel()

	r := newResolver(t)
	for _, id := range []string{
		"c3a1f8e2-1234-4abc-8def-000000000001",
		"c3a1f8e212344abc8def000000000001",
	} {
		got, err := r.Team(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestTeam_UnknownListsAvailable(t *testing.T) {
	t.Parallel()

	r := newResolver(t)
	_, err := r.Team(context.Background(), "OPS")
	require.Error(t, err)

	var unknownErr *UnknownTeamError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, []string{"ENG"}, unknownErr.Available)
}

func TestTeam_SelfHealRetries(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	syncer := &recordingSyncer{}
	syncer.install = func() error {
		doc, err := s.Load()
		if err != nil {
			return err
		}
		org, _ := doc.Org("acme")
		org.CacheTeam(store.TeamMeta{ID: "t-2", Key: "OPS", Name: "Operations"})
		return s.Save(doc)
	}

	r := &Resolver{Store: s, Syncer: syncer, UseCache: true}
	id, err := r.Team(context.Background(), "OPS")
	require.NoError(t, err)
	assert.Equal(t, "t-2", id)
	assert.Equal(t, 1, syncer.calls)
}

func TestTeam_SelfHealOnlyOnce(t *testing.T) {
	t.Parallel()

	syncer := &recordingSyncer{}
	r := &Resolver{Store: testStore(t), Syncer: syncer, UseCache: true}

	_, err := r.Team(context.Background(), "OPS")
	require.Error(t, err)
	assert.Equal(t, 1, syncer.calls)

	var unknownErr *UnknownTeamError
	assert.ErrorAs(t, err, &unknownErr)
}

func TestTeam_NoCacheMode(t *testing.T) {
	t.Parallel()

	r := &Resolver{Store: testStore(t), UseCache: false}

	_, err := r.Team(context.Background(), "ENG")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lin auth add")

	// Remote IDs still pass through.
	id, err := r.Team(context.Background(), "c3a1f8e2-1234-4abc-8def-000000000001")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestState(t *testing.T) {
	t.Parallel()

	r := newResolver(t)

	id, err := r.State(context.Background(), "ENG", "in progress")
	require.NoError(t, err)
	assert.Equal(t, "st-2", id)

	_, err = r.State(context.Background(), "ENG", "Shipped")
	var unknownErr *UnknownStateError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, []string{"Backlog", "In Progress"}, unknownErr.Available)
}

func TestPriority(t *testing.T) {
	t.Parallel()

	r := &Resolver{}
	tests := []struct {
		token string
		want  int
		ok    bool
	}{
		{"0", 0, true},
		{"4", 4, true},
		{"5", 0, false},
		{"-1", 0, false},
		{"none", 0, true},
		{"Urgent", 1, true},
		{"HIGH", 2, true},
		{"normal", 3, true},
		{"medium", 3, true},
		{"low", 4, true},
		{"critical", 0, false},
	}
	for _, tt := range tests {
		got, err := r.Priority(tt.token)
		if !tt.ok {
			var invalidErr *InvalidPriorityError
			assert.ErrorAs(t, err, &invalidErr, "token %q", tt.token)
			continue
		}
		require.NoError(t, err, "token %q", tt.token)
		assert.Equal(t, tt.want, got, "token %q", tt.token)
	}
}

func TestEstimate(t *testing.T) {
	t.Parallel()

	r := newResolver(t)
	ctx := context.Background()

	// Numeric tokens win over scale names.
	v, err := r.Estimate(ctx, "ENG", "8")
	require.NoError(t, err)
	assert.Equal(t, 8.0, v)

	v, err = r.Estimate(ctx, "ENG", "M")
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	_, err = r.Estimate(ctx, "ENG", "XXL")
	var unknownErr *UnknownEstimateError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, []string{"m", "s", "xs"}, unknownErr.Available)
}

func TestEstimate_MissDoesNotRefresh(t *testing.T) {
	t.Parallel()

	syncer := &recordingSyncer{}
	r := &Resolver{Store: testStore(t), Syncer: syncer, UseCache: true}

	_, err := r.Estimate(context.Background(), "ENG", "XXL")
	require.Error(t, err)
	assert.Equal(t, 0, syncer.calls, "estimate misses fail without a metadata refresh")
}

func TestProject_MissDoesNotRefresh(t *testing.T) {
	t.Parallel()

	syncer := &recordingSyncer{}
	r := &Resolver{Store: testStore(t), Syncer: syncer, UseCache: true}

	_, err := r.Project(context.Background(), "Skunkworks")
	require.Error(t, err)
	assert.Equal(t, 0, syncer.calls, "project misses fail without a metadata refresh")
}

func TestEstimate_NoCacheMode(t *testing.T) {
	t.Parallel()

	r := &Resolver{Store: testStore(t), UseCache: false}

	v, err := r.Estimate(context.Background(), "ENG", "2.5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	_, err = r.Estimate(context.Background(), "ENG", "m")
	require.Error(t, err)
}

func TestAssignee(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"viewer":{"id":"u-42","name":"Ada"}}}`))
	}))
	t.Cleanup(srv.Close)

	r := &Resolver{Client: api.NewWithEndpoint("tok", srv.URL)}

	id, err := r.Assignee(context.Background(), "me")
	require.NoError(t, err)
	assert.Equal(t, "u-42", id)

	id, err = r.Assignee(context.Background(), "u-7")
	require.NoError(t, err)
	assert.Equal(t, "u-7", id)
}

func TestAssignee_ViewerCached(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"data":{"viewer":{"id":"u-42"}}}`))
	}))
	t.Cleanup(srv.Close)

	r := &Resolver{
		Client: api.NewWithEndpoint("tok", srv.URL),
		Cache:  cache.New(t.TempDir()),
		Org:    "acme",
	}

	for i := 0; i < 3; i++ {
		id, err := r.Assignee(context.Background(), "ME")
		require.NoError(t, err)
		assert.Equal(t, "u-42", id)
	}
	assert.Equal(t, int32(1), calls.Load(), "viewer should be fetched once and cached")
}

func TestAssignee_ViewerNotSharedAcrossCredentials(t *testing.T) {
	t.Parallel()

	viewerServer := func(id string) *httptest.Server {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `{"data":{"viewer":{"id":%q}}}`, id)
		}))
		t.Cleanup(srv.Close)
		return srv
	}

	root := cache.New(t.TempDir())
	a := &Resolver{Client: api.NewWithEndpoint("tok-a", viewerServer("u-a").URL), Cache: root.Scope("token-a")}
	b := &Resolver{Client: api.NewWithEndpoint("tok-b", viewerServer("u-b").URL), Cache: root.Scope("token-b")}

	id, err := a.Assignee(context.Background(), "me")
	require.NoError(t, err)
	assert.Equal(t, "u-a", id)

	id, err = b.Assignee(context.Background(), "me")
	require.NoError(t, err)
	assert.Equal(t, "u-b", id, "second credential must resolve its own viewer")
}

func TestProject(t *testing.T) {
	t.Parallel()

	r := newResolver(t)

	id, err := r.Project(context.Background(), "roadmap")
	require.NoError(t, err)
	assert.Equal(t, "pr-1", id)

	_, err = r.Project(context.Background(), "Skunkworks")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Roadmap")
}

func TestNoOrgConfigured(t *testing.T) {
	t.Parallel()

	s := store.New(filepath.Join(t.TempDir(), "config.json"))
	r := &Resolver{Store: s, UseCache: true}

	_, err := r.Team(context.Background(), "ENG")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lin auth add")
}

func TestSelfHealFailureKeepsLookupError(t *testing.T) {
	t.Parallel()

	syncer := &recordingSyncer{install: func() error { return errors.New("network down") }}
	r := &Resolver{Store: testStore(t), Syncer: syncer, UseCache: true}

	_, err := r.Team(context.Background(), "OPS")
	require.Error(t, err)

	var unknownErr *UnknownTeamError
	assert.ErrorAs(t, err, &unknownErr)
	assert.Contains(t, err.Error(), "network down")
}

func TestIsRemoteID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		s    string
		want bool
	}{
		{"c3a1f8e2-1234-4abc-8def-000000000001", true},
		{"C3A1F8E2-1234-4ABC-8DEF-000000000001", true},
		{"c3a1f8e212344abc8def000000000001", true},
		{"ENG", false},
		{"eng-123", false},
		{"c3a1f8e2-1234-4abc-8def-00000000000g", false},
		{"c3a1f8e2x1234x4abcx8defx000000000001", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isRemoteID(tt.s), "token %q", tt.s)
	}
}
