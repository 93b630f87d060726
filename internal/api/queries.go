package api

import (
	"context"
	"fmt"
)

const issueFields = `
	id
	identifier
	title
	description
	priority
	estimate
	url
	branchName
	state { id name type position }
	assignee { id name displayName email }
	project { id name state }
	labels { nodes { id name color } }
	createdAt
	updatedAt
`

// Viewer returns the user the token belongs to.
func (c *Client) Viewer(ctx context.Context) (*User, error) {
	var resp struct {
		Viewer User `json:"viewer"`
	}
	query := `query { viewer { id name displayName email } }`
	if err := c.Query(ctx, query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Viewer, nil
}

// Teams lists all teams in the organization.
func (c *Client) Teams(ctx context.Context) ([]Team, error) {
	var resp struct {
		Teams struct {
			Nodes []Team `json:"nodes"`
		} `json:"teams"`
	}
	query := `query { teams { nodes { id key name issueEstimationType } } }`
	if err := c.Query(ctx, query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Teams.Nodes, nil
}

// TeamWorkflowStates lists a team's workflow states in board order.
func (c *Client) TeamWorkflowStates(ctx context.Context, teamID string) ([]WorkflowState, error) {
	var resp struct {
		Team struct {
			States struct {
				Nodes []WorkflowState `json:"nodes"`
			} `json:"states"`
		} `json:"team"`
	}
	query := `query($id: String!) {
		team(id: $id) {
			states(orderBy: position) { nodes { id name type position } }
		}
	}`
	if err := c.Query(ctx, query, map[string]any{"id": teamID}, &resp); err != nil {
		return nil, err
	}
	return resp.Team.States.Nodes, nil
}

// TeamLabels lists a team's issue labels.
func (c *Client) TeamLabels(ctx context.Context, teamID string) ([]Label, error) {
	var resp struct {
		Team struct {
			Labels struct {
				Nodes []Label `json:"nodes"`
			} `json:"labels"`
		} `json:"team"`
	}
	query := `query($id: String!) {
		team(id: $id) {
			labels { nodes { id name color } }
		}
	}`
	if err := c.Query(ctx, query, map[string]any{"id": teamID}, &resp); err != nil {
		return nil, err
	}
	return resp.Team.Labels.Nodes, nil
}

// Projects lists all projects in the organization.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var resp struct {
		Projects struct {
			Nodes []Project `json:"nodes"`
		} `json:"projects"`
	}
	query := `query { projects { nodes { id name state } } }`
	if err := c.Query(ctx, query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Projects.Nodes, nil
}

// TeamCycles lists a team's cycles, most recent first.
func (c *Client) TeamCycles(ctx context.Context, teamID string) ([]Cycle, error) {
	var resp struct {
		Team struct {
			Cycles struct {
				Nodes []Cycle `json:"nodes"`
			} `json:"cycles"`
		} `json:"team"`
	}
	query := `query($id: String!) {
		team(id: $id) {
			cycles { nodes { id number name startsAt endsAt } }
		}
	}`
	if err := c.Query(ctx, query, map[string]any{"id": teamID}, &resp); err != nil {
		return nil, err
	}
	return resp.Team.Cycles.Nodes, nil
}

// Documents lists all documents in the organization.
func (c *Client) Documents(ctx context.Context) ([]Document, error) {
	var resp struct {
		Documents struct {
			Nodes []Document `json:"nodes"`
		} `json:"documents"`
	}
	query := `query { documents { nodes { id title updatedAt project { id name state } } } }`
	if err := c.Query(ctx, query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Documents.Nodes, nil
}

// IssueFilter narrows an issue listing. All IDs are remote IDs; empty
// fields are omitted from the query.
type IssueFilter struct {
	TeamID     string
	StateID    string
	AssigneeID string
	ProjectID  string
	LabelName  string
	Priority   *int
	Limit      int
}

func (f IssueFilter) toVariables() map[string]any {
	filter := map[string]any{}
	if f.TeamID != "" {
		filter["team"] = map[string]any{"id": map[string]any{"eq": f.TeamID}}
	}
	if f.StateID != "" {
		filter["state"] = map[string]any{"id": map[string]any{"eq": f.StateID}}
	}
	if f.AssigneeID != "" {
		filter["assignee"] = map[string]any{"id": map[string]any{"eq": f.AssigneeID}}
	}
	if f.ProjectID != "" {
		filter["project"] = map[string]any{"id": map[string]any{"eq": f.ProjectID}}
	}
	if f.LabelName != "" {
		filter["labels"] = map[string]any{"name": map[string]any{"eq": f.LabelName}}
	}
	if f.Priority != nil {
		filter["priority"] = map[string]any{"number": map[string]any{"eq": *f.Priority}}
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	return map[string]any{"filter": filter, "first": limit}
}

// Issues lists issues matching the filter, most recently updated first.
func (c *Client) Issues(ctx context.Context, filter IssueFilter) ([]Issue, error) {
	var resp struct {
		Issues struct {
			Nodes []Issue `json:"nodes"`
		} `json:"issues"`
	}
	query := fmt.Sprintf(`query($filter: IssueFilter, $first: Int) {
		issues(filter: $filter, first: $first, orderBy: updatedAt) {
			nodes { %s }
		}
	}`, issueFields)
	if err := c.Query(ctx, query, filter.toVariables(), &resp); err != nil {
		return nil, err
	}
	return resp.Issues.Nodes, nil
}

// Issue fetches one issue by remote ID or identifier like "ENG-123".
func (c *Client) Issue(ctx context.Context, ref string) (*Issue, error) {
	var resp struct {
		Issue Issue `json:"issue"`
	}
	query := fmt.Sprintf(`query($id: String!) {
		issue(id: $id) { %s }
	}`, issueFields)
	if err := c.Query(ctx, query, map[string]any{"id": ref}, &resp); err != nil {
		return nil, err
	}
	return &resp.Issue, nil
}

// Comments lists an issue's comments, oldest first.
func (c *Client) Comments(ctx context.Context, ref string) ([]Comment, error) {
	var resp struct {
		Issue struct {
			Comments struct {
				Nodes []Comment `json:"nodes"`
			} `json:"comments"`
		} `json:"issue"`
	}
	query := `query($id: String!) {
		issue(id: $id) {
			comments { nodes { id body user { id name displayName email } createdAt } }
		}
	}`
	if err := c.Query(ctx, query, map[string]any{"id": ref}, &resp); err != nil {
		return nil, err
	}
	return resp.Issue.Comments.Nodes, nil
}

// IssueInput carries the writable issue fields. Nil pointers are left
// untouched on update and omitted on create.
type IssueInput struct {
	TeamID      string   `json:"teamId,omitempty"`
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	StateID     *string  `json:"stateId,omitempty"`
	AssigneeID  *string  `json:"assigneeId,omitempty"`
	ProjectID   *string  `json:"projectId,omitempty"`
	LabelIDs    []string `json:"labelIds,omitempty"`
	Priority    *int     `json:"priority,omitempty"`
	Estimate    *float64 `json:"estimate,omitempty"`
}

// CreateIssue creates an issue and returns it.
func (c *Client) CreateIssue(ctx context.Context, input IssueInput) (*Issue, error) {
	var resp struct {
		IssueCreate struct {
			Success bool  `json:"success"`
			Issue   Issue `json:"issue"`
		} `json:"issueCreate"`
	}
	query := fmt.Sprintf(`mutation($input: IssueCreateInput!) {
		issueCreate(input: $input) {
			success
			issue { %s }
		}
	}`, issueFields)
	if err := c.Query(ctx, query, map[string]any{"input": input}, &resp); err != nil {
		return nil, err
	}
	if !resp.IssueCreate.Success {
		return nil, &APIError{Messages: []string{"issue creation was rejected"}}
	}
	return &resp.IssueCreate.Issue, nil
}

// UpdateIssue applies the non-nil input fields to an issue.
func (c *Client) UpdateIssue(ctx context.Context, id string, input IssueInput) (*Issue, error) {
	var resp struct {
		IssueUpdate struct {
			Success bool  `json:"success"`
			Issue   Issue `json:"issue"`
		} `json:"issueUpdate"`
	}
	query := fmt.Sprintf(`mutation($id: String!, $input: IssueUpdateInput!) {
		issueUpdate(id: $id, input: $input) {
			success
			issue { %s }
		}
	}`, issueFields)
	vars := map[string]any{"id": id, "input": input}
	if err := c.Query(ctx, query, vars, &resp); err != nil {
		return nil, err
	}
	if !resp.IssueUpdate.Success {
		return nil, &APIError{Messages: []string{"issue update was rejected"}}
	}
	return &resp.IssueUpdate.Issue, nil
}

// SearchIssues runs a full-text search over issues.
func (c *Client) SearchIssues(ctx context.Context, term string, limit int) ([]Issue, error) {
	if limit <= 0 {
		limit = 25
	}
	var resp struct {
		SearchIssues struct {
			Nodes []Issue `json:"nodes"`
		} `json:"searchIssues"`
	}
	query := fmt.Sprintf(`query($term: String!, $first: Int) {
		searchIssues(term: $term, first: $first) {
			nodes { %s }
		}
	}`, issueFields)
	vars := map[string]any{"term": term, "first": limit}
	if err := c.Query(ctx, query, vars, &resp); err != nil {
		return nil, err
	}
	return resp.SearchIssues.Nodes, nil
}
