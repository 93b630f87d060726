// Package resolve turns human-friendly tokens into remote IDs.
//
// Team keys, state names, estimate scale names and the "me" assignee
// all resolve against the synced metadata in the store. A token that
// already looks like a remote ID passes through untouched. When a team
// or state lookup misses, the resolver refreshes the metadata once and
// retries before giving up with an error that lists what is available.
// Estimate and project misses fail immediately: their scales change
// only with team settings, not with day-to-day activity.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lincli/lin/internal/api"
	"github.com/lincli/lin/internal/cache"
	"github.com/lincli/lin/internal/log"
	"github.com/lincli/lin/internal/store"
)

// Syncer refreshes the metadata cache. Wired to the sync orchestrator.
type Syncer interface {
	Refresh(ctx context.Context) error
}

// Resolver resolves tokens for one organization.
type Resolver struct {
	Store  *store.Store
	Client *api.Client
	Syncer Syncer

	// Cache, when set, keeps the viewer ID for "me" lookups under the
	// users TTL.
	Cache *cache.Cache

	// Org names the organization to resolve against. Empty means the
	// active org.
	Org string

	// UseCache is false when the token came from a flag or the
	// environment. Without a stored org there is no metadata to
	// resolve names against, so only remote IDs are accepted.
	UseCache bool
}

var errNoMetadata = errors.New("name resolution needs stored credentials: run \"lin auth add\" and \"lin sync\", or pass remote IDs directly")

// Team resolves a team key like "ENG" to its remote ID.
func (r *Resolver) Team(ctx context.Context, token string) (string, error) {
	if isRemoteID(token) {
		return token, nil
	}
	if !r.UseCache {
		return "", errNoMetadata
	}

	var id string
	err := r.withSelfHeal(ctx, func(org *store.Org) error {
		got, ok := org.TeamID(token)
		if !ok {
			keys := org.TeamKeys()
			return &UnknownTeamError{Token: token, Available: keys, Suggestion: suggest(token, keys)}
		}
		id = got
		return nil
	})
	return id, err
}

// State resolves a workflow state name within a team to its remote ID.
// Matching is case-insensitive.
func (r *Resolver) State(ctx context.Context, teamKey, token string) (string, error) {
	if isRemoteID(token) {
		return token, nil
	}
	if !r.UseCache {
		return "", errNoMetadata
	}

	var id string
	err := r.withSelfHeal(ctx, func(org *store.Org) error {
		got, ok := org.StateID(teamKey, token)
		if !ok {
			names := org.StateNames(teamKey)
			return &UnknownStateError{Token: token, Team: teamKey, Available: names, Suggestion: suggest(token, names)}
		}
		id = got
		return nil
	})
	return id, err
}

// Priority resolves a priority token to its numeric value. Accepts the
// numbers 0-4 and the priority names, case-insensitively.
func (r *Resolver) Priority(token string) (int, error) {
	if n, err := strconv.Atoi(token); err == nil {
		if n < 0 || n > 4 {
			return 0, &InvalidPriorityError{Token: token}
		}
		return n, nil
	}

	switch strings.ToLower(token) {
	case "none":
		return 0, nil
	case "urgent":
		return 1, nil
	case "high":
		return 2, nil
	case "normal", "medium":
		return 3, nil
	case "low":
		return 4, nil
	}
	return 0, &InvalidPriorityError{Token: token}
}

// Estimate resolves an estimate token to its point value. Numeric
// tokens are taken at face value; anything else is looked up in the
// team's estimate scale.
func (r *Resolver) Estimate(ctx context.Context, teamKey, token string) (float64, error) {
	if v, err := strconv.ParseFloat(token, 64); err == nil {
		return v, nil
	}
	if !r.UseCache {
		return 0, errNoMetadata
	}

	org, err := r.org()
	if err != nil {
		return 0, err
	}
	value, ok := org.EstimateValue(teamKey, token)
	if !ok {
		return 0, &UnknownEstimateError{Token: token, Team: teamKey, Available: org.EstimateNames(teamKey)}
	}
	return value, nil
}

// Assignee resolves an assignee token. The literal "me" becomes the
// token owner's user ID; anything else passes through as a remote ID.
func (r *Resolver) Assignee(ctx context.Context, token string) (string, error) {
	if !strings.EqualFold(token, "me") {
		return token, nil
	}

	key := cache.Fingerprint("viewer", []string{r.Org})
	var id string
	if r.Cache != nil && r.Cache.Get(cache.TypeUsers, key, &id) {
		return id, nil
	}

	viewer, err := r.Client.Viewer(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve \"me\": %w", err)
	}
	if r.Cache != nil {
		if err := r.Cache.Put(cache.TypeUsers, key, viewer.ID); err != nil {
			log.FromContext(ctx).Debug("cache write failed", "error", err)
		}
	}
	return viewer.ID, nil
}

// Project resolves a project name to its remote ID.
func (r *Resolver) Project(ctx context.Context, token string) (string, error) {
	if isRemoteID(token) {
		return token, nil
	}
	if !r.UseCache {
		return "", errNoMetadata
	}

	org, err := r.org()
	if err != nil {
		return "", err
	}
	id, ok := org.Project(token)
	if !ok {
		return "", fmt.Errorf("unknown project %q: available projects: %s", token, strings.Join(org.ProjectNames(), ", "))
	}
	return id, nil
}

// withSelfHeal runs a lookup against the current metadata. On a miss
// it refreshes the cache and retries exactly once before surfacing
// the lookup's error.
func (r *Resolver) withSelfHeal(ctx context.Context, lookup func(org *store.Org) error) error {
	org, err := r.org()
	if err != nil {
		return err
	}

	lookupErr := lookup(org)
	if lookupErr == nil {
		return nil
	}
	if r.Syncer == nil {
		return lookupErr
	}

	log.FromContext(ctx).Debug("lookup missed, refreshing metadata")
	if err := r.Syncer.Refresh(ctx); err != nil {
		return fmt.Errorf("%w (metadata refresh also failed: %v)", lookupErr, err)
	}

	org, err = r.org()
	if err != nil {
		return err
	}
	return lookup(org)
}

func (r *Resolver) org() (*store.Org, error) {
	doc, err := r.Store.Load()
	if err != nil {
		return nil, err
	}

	name := r.Org
	if name == "" {
		name = doc.ActiveOrg
	}
	org, ok := doc.Org(name)
	if !ok {
		return nil, errors.New("no organization configured: run \"lin auth add\" first")
	}
	return org, nil
}

// isRemoteID reports whether s already looks like a remote ID: a
// hyphenated UUID or 32 bare hex characters.
func isRemoteID(s string) bool {
	switch len(s) {
	case 36:
		for i, c := range s {
			if i == 8 || i == 13 || i == 18 || i == 23 {
				if c != '-' {
					return false
				}
				continue
			}
			if !isHex(c) {
				return false
			}
		}
		return true
	case 32:
		for _, c := range s {
			if !isHex(c) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func isHex(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
