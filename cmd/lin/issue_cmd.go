package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/lincli/lin/internal/api"
	"github.com/lincli/lin/internal/cache"
	"github.com/lincli/lin/internal/format"
	"github.com/lincli/lin/internal/log"
	"github.com/lincli/lin/internal/output"
	"github.com/lincli/lin/internal/ui"
)

func newIssueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "issue",
		Short:   "List, view, create and update issues",
		GroupID: GroupIssues,
	}

	cmd.AddCommand(newIssueListCmd())
	cmd.AddCommand(newIssueViewCmd())
	cmd.AddCommand(newIssueCreateCmd())
	cmd.AddCommand(newIssueUpdateCmd())

	return cmd
}

func newIssueListCmd() *cobra.Command {
	var (
		team     string
		state    string
		assignee string
		project  string
		label    string
		priority string
		limit    int
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List issues",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		Long: `List issues, filtered by team, state, assignee, project or label.

Filters take the names you see in the UI: team keys like ENG, state
names like "In Progress", and "me" for your own issues. Results are
cached briefly; pass --no-cache to force a fresh fetch.`,
		Example: `  lin issue list --team ENG
  lin issue list --state "in progress" --assignee me
  lin issue list --project Roadmap --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			sess, err := newSession(ctx)
			if err != nil {
				return err
			}
			r := sess.resolver()

			var filter api.IssueFilter
			filter.Limit = limit

			var parts []string
			var teamErr error
			if team != "" || sess.UseCache {
				key, err := sess.teamOrDefault(team)
				switch {
				case err == nil:
					filter.TeamID, err = r.Team(ctx, key)
					if err != nil {
						return err
					}
					parts = append(parts, "team="+filter.TeamID)
					team = key
				case team != "":
					return err
				default:
					teamErr = err
				}
			}
			if state != "" {
				// State names only resolve within a team.
				if team == "" && teamErr != nil {
					return fmt.Errorf("cannot filter by state: %w", teamErr)
				}
				filter.StateID, err = r.State(ctx, team, state)
				if err != nil {
					return err
				}
				parts = append(parts, "state="+filter.StateID)
			}
			if assignee != "" {
				filter.AssigneeID, err = r.Assignee(ctx, assignee)
				if err != nil {
					return err
				}
				parts = append(parts, "assignee="+filter.AssigneeID)
			}
			if project != "" {
				filter.ProjectID, err = r.Project(ctx, project)
				if err != nil {
					return err
				}
				parts = append(parts, "project="+filter.ProjectID)
			}
			if label != "" {
				filter.LabelName = label
				parts = append(parts, "label="+label)
			}
			if priority != "" {
				p, err := r.Priority(priority)
				if err != nil {
					return err
				}
				filter.Priority = &p
				parts = append(parts, fmt.Sprintf("priority=%d", p))
			}
			parts = append(parts, fmt.Sprintf("limit=%d", filter.Limit))

			key := cache.Fingerprint("issue list", parts)
			var issues []api.Issue
			if sess.Cache.Get(cache.TypeIssues, key, &issues) {
				l.Debug("issue list served from cache", "key", key)
			} else {
				issues, err = sess.Client.Issues(ctx, filter)
				if err != nil {
					return err
				}
				if err := sess.Cache.Put(cache.TypeIssues, key, issues); err != nil {
					l.Debug("cache write failed", "error", err)
				}
			}

			return printIssues(out, issues)
		},
	}

	cmd.Flags().StringVarP(&team, "team", "t", "", "Team key, e.g. ENG")
	cmd.Flags().StringVarP(&state, "state", "s", "", "Workflow state name")
	cmd.Flags().StringVarP(&assignee, "assignee", "a", "", "Assignee ID or \"me\"")
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")
	cmd.Flags().StringVarP(&label, "label", "l", "", "Label name")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority: 0-4 or none, urgent, high, normal, low")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of issues")

	return cmd
}

func newIssueViewCmd() *cobra.Command {
	var (
		withComments bool
		copyURL      bool
	)

	cmd := &cobra.Command{
		Use:   "view <id>",
		Short: "Show one issue",
		Args:  cobra.ExactArgs(1),
		Example: `  lin issue view ENG-123
  lin issue view ENG-123 --comments
  lin issue view ENG-123 --copy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)
			ref := args[0]

			sess, err := newSession(ctx)
			if err != nil {
				return err
			}

			key := cache.Fingerprint("issue view", []string{ref})
			var issue *api.Issue
			if !sess.Cache.Get(cache.TypeIssues, key, &issue) {
				issue, err = sess.Client.Issue(ctx, ref)
				if err != nil {
					return err
				}
				if err := sess.Cache.Put(cache.TypeIssues, key, issue); err != nil {
					l.Debug("cache write failed", "error", err)
				}
			}

			var comments []api.Comment
			if withComments {
				commentsKey := cache.Fingerprint("issue comments", []string{ref})
				if !sess.Cache.Get(cache.TypeComments, commentsKey, &comments) {
					comments, err = sess.Client.Comments(ctx, ref)
					if err != nil {
						return err
					}
					if err := sess.Cache.Put(cache.TypeComments, commentsKey, comments); err != nil {
						l.Debug("cache write failed", "error", err)
					}
				}
			}

			if copyURL {
				if err := clipboard.WriteAll(issue.URL); err != nil {
					return fmt.Errorf("copy URL: %w", err)
				}
				l.Println("Copied URL to clipboard")
			}

			if out.JSON() {
				view := map[string]any{"issue": issue}
				if withComments {
					view["comments"] = comments
				}
				return out.EncodeJSON(view)
			}

			printIssueDetail(out, issue)
			if withComments {
				printComments(out, comments)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&withComments, "comments", "c", false, "Include comments")
	cmd.Flags().BoolVar(&copyURL, "copy", false, "Copy the issue URL to the clipboard")

	return cmd
}

func newIssueCreateCmd() *cobra.Command {
	var (
		team        string
		title       string
		description string
		state       string
		priority    string
		estimate    string
		assignee    string
		project     string
		labels      []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an issue",
		Args:  cobra.NoArgs,
		Example: `  lin issue create --team ENG --title "Fix login crash"
  lin issue create -t ENG --title "Spike" --estimate M --priority high --assignee me`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			sess, err := newSession(ctx)
			if err != nil {
				return err
			}
			r := sess.resolver()

			key, err := sess.teamOrDefault(team)
			if err != nil {
				return err
			}
			teamID, err := r.Team(ctx, key)
			if err != nil {
				return err
			}

			input := api.IssueInput{TeamID: teamID, Title: &title}
			if description != "" {
				input.Description = &description
			}
			if state != "" {
				id, err := r.State(ctx, key, state)
				if err != nil {
					return err
				}
				input.StateID = &id
			}
			if priority != "" {
				p, err := r.Priority(priority)
				if err != nil {
					return err
				}
				input.Priority = &p
			}
			if estimate != "" {
				e, err := r.Estimate(ctx, key, estimate)
				if err != nil {
					return err
				}
				input.Estimate = &e
			}
			if assignee != "" {
				id, err := r.Assignee(ctx, assignee)
				if err != nil {
					return err
				}
				input.AssigneeID = &id
			}
			if project != "" {
				id, err := r.Project(ctx, project)
				if err != nil {
					return err
				}
				input.ProjectID = &id
			}
			if len(labels) > 0 {
				input.LabelIDs, err = resolveLabels(sess, key, labels)
				if err != nil {
					return err
				}
			}

			issue, err := sess.Client.CreateIssue(ctx, input)
			if err != nil {
				return err
			}

			if out.JSON() {
				return out.EncodeJSON(issue)
			}
			out.Printf("Created %s: %s\n", issue.Identifier, issue.URL)
			return nil
		},
	}

	cmd.Flags().StringVarP(&team, "team", "t", "", "Team key, e.g. ENG")
	cmd.Flags().StringVar(&title, "title", "", "Issue title (required)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Issue description (markdown)")
	cmd.Flags().StringVarP(&state, "state", "s", "", "Workflow state name")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority: 0-4 or none, urgent, high, normal, low")
	cmd.Flags().StringVarP(&estimate, "estimate", "e", "", "Estimate: points or a scale name like M")
	cmd.Flags().StringVarP(&assignee, "assignee", "a", "", "Assignee ID or \"me\"")
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")
	cmd.Flags().StringSliceVarP(&labels, "label", "l", nil, "Label name (repeatable)")
	cmd.MarkFlagRequired("title")

	return cmd
}

func newIssueUpdateCmd() *cobra.Command {
	var (
		title       string
		description string
		state       string
		priority    string
		estimate    string
		assignee    string
		project     string
		labels      []string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an issue",
		Args:  cobra.ExactArgs(1),
		Long: `Update an issue's fields. Only the flags you pass change; everything
else is left untouched. State and estimate names resolve against the
issue's team, taken from its identifier prefix.`,
		Example: `  lin issue update ENG-123 --state Done
  lin issue update ENG-123 --estimate L --assignee me`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			ref := args[0]

			sess, err := newSession(ctx)
			if err != nil {
				return err
			}
			r := sess.resolver()

			issue, err := sess.Client.Issue(ctx, ref)
			if err != nil {
				return err
			}
			teamKey := identifierTeam(issue.Identifier)

			var input api.IssueInput
			if title != "" {
				input.Title = &title
			}
			if description != "" {
				input.Description = &description
			}
			if state != "" {
				id, err := r.State(ctx, teamKey, state)
				if err != nil {
					return err
				}
				input.StateID = &id
			}
			if priority != "" {
				p, err := r.Priority(priority)
				if err != nil {
					return err
				}
				input.Priority = &p
			}
			if estimate != "" {
				e, err := r.Estimate(ctx, teamKey, estimate)
				if err != nil {
					return err
				}
				input.Estimate = &e
			}
			if assignee != "" {
				id, err := r.Assignee(ctx, assignee)
				if err != nil {
					return err
				}
				input.AssigneeID = &id
			}
			if project != "" {
				id, err := r.Project(ctx, project)
				if err != nil {
					return err
				}
				input.ProjectID = &id
			}
			if len(labels) > 0 {
				input.LabelIDs, err = resolveLabels(sess, teamKey, labels)
				if err != nil {
					return err
				}
			}

			updated, err := sess.Client.UpdateIssue(ctx, issue.ID, input)
			if err != nil {
				return err
			}

			if out.JSON() {
				return out.EncodeJSON(updated)
			}
			out.Printf("Updated %s\n", updated.Identifier)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description (markdown)")
	cmd.Flags().StringVarP(&state, "state", "s", "", "Workflow state name")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority: 0-4 or none, urgent, high, normal, low")
	cmd.Flags().StringVarP(&estimate, "estimate", "e", "", "Estimate: points or a scale name like M")
	cmd.Flags().StringVarP(&assignee, "assignee", "a", "", "Assignee ID or \"me\"")
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")
	cmd.Flags().StringSliceVarP(&labels, "label", "l", nil, "Label name (repeatable, replaces existing labels)")

	return cmd
}

// resolveLabels maps label names to IDs using the team's synced
// metadata. Tokens that already look like remote IDs pass through.
func resolveLabels(sess *session, teamKey string, names []string) ([]string, error) {
	org, err := sess.org()
	if err != nil {
		return nil, err
	}
	team, ok := org.Team(teamKey)
	if !ok {
		return nil, fmt.Errorf("unknown team: %s (run \"lin sync\" first)", teamKey)
	}

	ids := make([]string, 0, len(names))
	for _, name := range names {
		id := ""
		for _, label := range team.Labels {
			if strings.EqualFold(label.Name, name) {
				id = label.ID
				break
			}
		}
		if id == "" {
			var available []string
			for _, label := range team.Labels {
				available = append(available, label.Name)
			}
			return nil, fmt.Errorf("unknown label %q for team %s: available labels: %s",
				name, teamKey, strings.Join(available, ", "))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// identifierTeam extracts the team key from an identifier like "ENG-123".
func identifierTeam(identifier string) string {
	key, _, _ := strings.Cut(identifier, "-")
	return key
}

func printIssues(out *output.Printer, issues []api.Issue) error {
	if out.JSON() {
		return out.EncodeJSON(issues)
	}
	if len(issues) == 0 {
		out.Println("No issues found.")
		return nil
	}

	var rows [][]string
	for _, issue := range issues {
		stateName := ""
		if issue.State != nil {
			stateName = issue.State.Name
		}
		assigneeName := ""
		if issue.Assignee != nil {
			assigneeName = issue.Assignee.DisplayName
		}
		estimate := ""
		if issue.Estimate != nil {
			estimate = fmt.Sprintf("%g", *issue.Estimate)
		}
		rows = append(rows, []string{
			issue.Identifier,
			format.Truncate(issue.Title, 50),
			stateName,
			format.Priority(issue.Priority),
			estimate,
			assigneeName,
			format.RelativeTime(issue.UpdatedAt),
		})
	}
	out.Print(ui.RenderTable([]string{"ID", "TITLE", "STATE", "PRIORITY", "ESTIMATE", "ASSIGNEE", "UPDATED"}, rows))
	return nil
}

func printIssueDetail(out *output.Printer, issue *api.Issue) {
	out.Printf("%s  %s\n", issue.Identifier, issue.Title)
	if issue.State != nil {
		out.Printf("State:    %s\n", issue.State.Name)
	}
	out.Printf("Priority: %s\n", format.Priority(issue.Priority))
	if issue.Estimate != nil {
		out.Printf("Estimate: %g\n", *issue.Estimate)
	}
	if issue.Assignee != nil {
		out.Printf("Assignee: %s\n", issue.Assignee.DisplayName)
	}
	if issue.Project != nil {
		out.Printf("Project:  %s\n", issue.Project.Name)
	}
	if len(issue.Labels.Nodes) > 0 {
		names := make([]string, len(issue.Labels.Nodes))
		for i, label := range issue.Labels.Nodes {
			names[i] = label.Name
		}
		out.Printf("Labels:   %s\n", strings.Join(names, ", "))
	}
	if issue.BranchName != "" {
		out.Printf("Branch:   %s\n", issue.BranchName)
	}
	out.Printf("URL:      %s\n", issue.URL)
	if issue.Description != "" {
		out.Printf("\n%s\n", issue.Description)
	}
}

func printComments(out *output.Printer, comments []api.Comment) {
	if len(comments) == 0 {
		out.Println("\nNo comments.")
		return
	}
	out.Printf("\nComments (%d):\n", len(comments))
	for _, comment := range comments {
		author := ""
		if comment.User != nil {
			author = comment.User.DisplayName
		}
		out.Printf("\n%s, %s:\n%s\n", author, format.RelativeTime(comment.CreatedAt), comment.Body)
	}
}
