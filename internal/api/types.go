package api

import "time"

// User is an organization member.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// Team is an organization team, identified by a short key like "ENG".
type Team struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
	// IssueEstimationType names the team's estimate scale:
	// notUsed, exponential, fibonacci, linear or tShirt.
	IssueEstimationType string `json:"issueEstimationType"`
}

// WorkflowState is one column of a team's workflow.
type WorkflowState struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Position float64 `json:"position"`
}

// Label is an issue label.
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Project groups issues across teams.
type Project struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}

// Cycle is a team's time-boxed sprint.
type Cycle struct {
	ID       string    `json:"id"`
	Number   int       `json:"number"`
	Name     string    `json:"name"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
}

// Document is a shared document, optionally attached to a project.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Project   *Project  `json:"project"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Issue is a tracked work item.
type Issue struct {
	ID          string         `json:"id"`
	Identifier  string         `json:"identifier"` // e.g. "ENG-123"
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Priority    int            `json:"priority"`
	Estimate    *float64       `json:"estimate"`
	URL         string         `json:"url"`
	BranchName  string         `json:"branchName"`
	State       *WorkflowState `json:"state"`
	Assignee    *User          `json:"assignee"`
	Project     *Project       `json:"project"`
	Labels      struct {
		Nodes []Label `json:"nodes"`
	} `json:"labels"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Comment is a note on an issue.
type Comment struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	User      *User     `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}
