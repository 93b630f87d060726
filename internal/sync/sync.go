// Package sync refreshes an organization's metadata cache from the API.
//
// A sync fetches every team with its workflow states, labels and
// estimate scale, plus all projects, then replaces the org's cached
// metadata in one step. Nothing is written until every fetch has
// succeeded, so a mid-sync failure leaves the previous cache intact.
package sync

import (
	"context"
	"fmt"
	"strconv"

	"github.com/lincli/lin/internal/api"
	"github.com/lincli/lin/internal/log"
	"github.com/lincli/lin/internal/store"
)

// Orchestrator runs metadata syncs for one organization.
type Orchestrator struct {
	Client *api.Client
	Store  *store.Store

	// Org names the organization to sync. Empty means the active org.
	Org string
}

// Summary reports what a sync collected.
type Summary struct {
	Org      string `json:"org"`
	Teams    int    `json:"teams"`
	States   int    `json:"states"`
	Labels   int    `json:"labels"`
	Projects int    `json:"projects"`
}

// Sync fetches all metadata and replaces the org's cache wholesale.
func (o *Orchestrator) Sync(ctx context.Context) (Summary, error) {
	logger := log.FromContext(ctx)

	doc, err := o.Store.Load()
	if err != nil {
		return Summary{}, err
	}

	orgName := o.Org
	if orgName == "" {
		orgName = doc.ActiveOrg
	}
	org, ok := doc.Org(orgName)
	if !ok {
		return Summary{}, fmt.Errorf("no organization configured: run \"lin auth add\" first")
	}

	teams, err := o.Client.Teams(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("fetch teams: %w", err)
	}

	summary := Summary{Org: orgName, Teams: len(teams)}
	metas := make([]store.TeamMeta, 0, len(teams))
	for _, team := range teams {
		logger.Debug("syncing team", "key", team.Key)

		states, err := o.Client.TeamWorkflowStates(ctx, team.ID)
		if err != nil {
			return Summary{}, fmt.Errorf("fetch states for %s: %w", team.Key, err)
		}
		labels, err := o.Client.TeamLabels(ctx, team.ID)
		if err != nil {
			return Summary{}, fmt.Errorf("fetch labels for %s: %w", team.Key, err)
		}

		meta := store.TeamMeta{
			ID:        team.ID,
			Key:       team.Key,
			Name:      team.Name,
			Estimates: estimateScale(team.IssueEstimationType),
		}
		for _, s := range states {
			meta.States = append(meta.States, store.WorkflowState{ID: s.ID, Name: s.Name, Type: s.Type})
		}
		for _, l := range labels {
			meta.Labels = append(meta.Labels, store.Label{ID: l.ID, Name: l.Name})
		}

		summary.States += len(states)
		summary.Labels += len(labels)
		metas = append(metas, meta)
	}

	projects, err := o.Client.Projects(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("fetch projects: %w", err)
	}
	summary.Projects = len(projects)

	projectMap := make(map[string]string, len(projects))
	for _, p := range projects {
		projectMap[p.Name] = p.ID
	}

	org.ReplaceTeams(metas, projectMap)
	if err := o.Store.Save(doc); err != nil {
		return Summary{}, err
	}

	logger.Debug("sync complete",
		"org", orgName,
		"teams", summary.Teams,
		"states", summary.States,
		"projects", summary.Projects)

	return summary, nil
}

// Refresh runs a sync and discards the summary. It satisfies the
// resolver's self-heal hook.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	_, err := o.Sync(ctx)
	return err
}

// estimateScale maps a team's issueEstimationType to its named point
// values. Teams that don't estimate get an empty scale.
func estimateScale(estimationType string) map[string]float64 {
	switch estimationType {
	case "tShirt":
		return map[string]float64{"xs": 1, "s": 2, "m": 3, "l": 5, "xl": 8}
	case "linear":
		return numericScale(1, 2, 3, 4, 5)
	case "fibonacci":
		return numericScale(1, 2, 3, 5, 8, 13, 21)
	case "exponential":
		return numericScale(1, 2, 4, 8, 16, 32, 64)
	default:
		return map[string]float64{}
	}
}

func numericScale(points ...float64) map[string]float64 {
	scale := make(map[string]float64, len(points))
	for _, p := range points {
		scale[strconv.FormatFloat(p, 'f', -1, 64)] = p
	}
	return scale
}
