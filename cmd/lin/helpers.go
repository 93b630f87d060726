package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/lincli/lin/internal/api"
	"github.com/lincli/lin/internal/cache"
	"github.com/lincli/lin/internal/log"
	"github.com/lincli/lin/internal/resolve"
	"github.com/lincli/lin/internal/store"
	"github.com/lincli/lin/internal/sync"
)

// tokenEnvVar supplies a token without stored credentials, for CI
// and scripts.
const tokenEnvVar = "LIN_API_TOKEN"

var errNoToken = errors.New("no API token found: run \"lin auth add\", set LIN_API_TOKEN, or pass --api-token")

// session bundles the authenticated pieces a command needs. The token
// source decides how much is available: tokens from the store enable
// metadata-backed name resolution, tokens from a flag or the
// environment restrict resolution to remote IDs.
type session struct {
	Token    string
	Org      string // org name, only when the token came from the store
	UseCache bool
	Store    *store.Store
	Client   *api.Client
	Cache    *cache.Cache
}

// newSession builds a session from the token sources in priority
// order: --api-token, then LIN_API_TOKEN, then the stored org.
func newSession(ctx context.Context) (*session, error) {
	logger := log.FromContext(ctx)

	s, err := store.Default()
	if err != nil {
		return nil, err
	}

	sess := &session{Store: s}

	switch {
	case apiToken != "":
		logger.Debug("using token from --api-token")
		sess.Token = apiToken
	case os.Getenv(tokenEnvVar) != "":
		logger.Debug("using token from environment")
		sess.Token = os.Getenv(tokenEnvVar)
	default:
		doc, err := s.Load()
		if err != nil {
			return nil, err
		}
		name := orgName
		if name == "" {
			name = doc.ActiveOrg
		}
		if name == "" && cfg != nil {
			name = cfg.DefaultOrg
		}
		org, ok := doc.Org(name)
		if !ok {
			return nil, errNoToken
		}
		logger.Debug("using stored token", "org", name)
		sess.Token = org.Token
		sess.Org = name
		sess.UseCache = true
	}

	endpoint := ""
	if cfg != nil {
		endpoint = cfg.Endpoint
	}
	sess.Client = api.NewWithEndpoint(sess.Token, endpoint)

	c, err := cache.Default()
	if err != nil {
		return nil, err
	}
	c.Bypass = noCache
	sess.Cache = c.Scope(sess.cacheScope())

	return sess, nil
}

// cacheScope names the cache partition for the session's credential.
// Stored orgs partition by name; flag and environment tokens partition
// by a token digest so distinct credentials never share entries.
func (s *session) cacheScope() string {
	if s.Org != "" {
		return s.Org
	}
	sum := sha256.Sum256([]byte(s.Token))
	return "token-" + hex.EncodeToString(sum[:8])
}

// orchestrator returns a sync orchestrator for the session's org.
func (s *session) orchestrator() *sync.Orchestrator {
	return &sync.Orchestrator{Client: s.Client, Store: s.Store, Org: s.Org}
}

// resolver returns a name resolver. Self-healing is only wired up when
// the session has a stored org to refresh.
func (s *session) resolver() *resolve.Resolver {
	r := &resolve.Resolver{
		Store:    s.Store,
		Client:   s.Client,
		Cache:    s.Cache,
		Org:      s.Org,
		UseCache: s.UseCache,
	}
	if s.UseCache {
		r.Syncer = s.orchestrator()
	}
	return r
}

// org loads the session's org entry from the store.
func (s *session) org() (*store.Org, error) {
	if !s.UseCache {
		return nil, errors.New("no stored organization: run \"lin auth add\" first")
	}
	doc, err := s.Store.Load()
	if err != nil {
		return nil, err
	}
	org, ok := doc.Org(s.Org)
	if !ok {
		return nil, fmt.Errorf("unknown organization: %s", s.Org)
	}
	return org, nil
}

// teamOrDefault picks the team for a command: the --team flag if given,
// otherwise the org's current team.
func (s *session) teamOrDefault(flagTeam string) (string, error) {
	if flagTeam != "" {
		return flagTeam, nil
	}
	org, err := s.org()
	if err != nil {
		return "", fmt.Errorf("no team given: %w", err)
	}
	key, ok := org.CurrentTeam()
	if !ok {
		return "", errors.New("no team given: pass --team or set one with \"lin team switch\"")
	}
	return key, nil
}
