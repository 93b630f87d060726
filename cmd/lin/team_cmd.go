package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lincli/lin/internal/output"
	"github.com/lincli/lin/internal/store"
	"github.com/lincli/lin/internal/ui"
)

func newTeamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "team",
		Short:   "List teams and set the default team",
		GroupID: GroupMeta,
	}

	cmd.AddCommand(newTeamListCmd())
	cmd.AddCommand(newTeamSwitchCmd())

	return cmd
}

func newTeamListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List synced teams",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			sess, err := newSession(ctx)
			if err != nil {
				return err
			}
			org, err := sess.org()
			if err != nil {
				return err
			}

			keys := org.TeamKeys()
			if len(keys) == 0 {
				out.Println("No teams synced yet. Run 'lin sync' first.")
				return nil
			}

			current, _ := org.CurrentTeam()

			if out.JSON() {
				teams := make([]store.TeamMeta, 0, len(keys))
				for _, key := range keys {
					team, _ := org.Team(key)
					teams = append(teams, team)
				}
				return out.EncodeJSON(teams)
			}

			var rows [][]string
			for _, key := range keys {
				team, _ := org.Team(key)
				marker := ""
				if key == current {
					marker = ui.Success("*")
				}
				rows = append(rows, []string{
					marker,
					team.Key,
					team.Name,
					strconv.Itoa(len(team.States)),
					strconv.Itoa(len(team.Estimates)),
				})
			}
			out.Print(ui.RenderTable([]string{"", "KEY", "NAME", "STATES", "ESTIMATES"}, rows))
			return nil
		},
	}
}

func newTeamSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <key>",
		Short: "Set the default team for issue commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			sess, err := newSession(ctx)
			if err != nil {
				return err
			}

			doc, err := sess.Store.Load()
			if err != nil {
				return err
			}
			org, ok := doc.Org(sess.Org)
			if !ok {
				return errNoToken
			}
			if err := org.SetCurrentTeam(args[0]); err != nil {
				return err
			}
			if err := sess.Store.Save(doc); err != nil {
				return err
			}

			key, _ := org.CurrentTeam()
			out.Printf("Default team is now %s\n", key)
			return nil
		},
	}
}
