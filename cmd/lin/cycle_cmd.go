package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lincli/lin/internal/api"
	"github.com/lincli/lin/internal/cache"
	"github.com/lincli/lin/internal/log"
	"github.com/lincli/lin/internal/output"
	"github.com/lincli/lin/internal/ui"
)

func newCycleCmd() *cobra.Command {
	var team string

	cmd := &cobra.Command{
		Use:     "cycle",
		Short:   "List a team's cycles",
		GroupID: GroupMeta,
	}

	list := &cobra.Command{
		Use:     "list",
		Short:   "List cycles",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			sess, err := newSession(ctx)
			if err != nil {
				return err
			}

			key, err := sess.teamOrDefault(team)
			if err != nil {
				return err
			}
			teamID, err := sess.resolver().Team(ctx, key)
			if err != nil {
				return err
			}

			cacheKey := cache.Fingerprint("cycle list", []string{teamID})
			var cycles []api.Cycle
			if sess.Cache.Get(cache.TypeCycles, cacheKey, &cycles) {
				l.Debug("cycle list served from cache")
			} else {
				cycles, err = sess.Client.TeamCycles(ctx, teamID)
				if err != nil {
					return err
				}
				if err := sess.Cache.Put(cache.TypeCycles, cacheKey, cycles); err != nil {
					l.Debug("cache write failed", "error", err)
				}
			}

			if out.JSON() {
				return out.EncodeJSON(cycles)
			}
			if len(cycles) == 0 {
				out.Println("No cycles found.")
				return nil
			}

			var rows [][]string
			for _, c := range cycles {
				name := c.Name
				if name == "" {
					name = fmt.Sprintf("Cycle %d", c.Number)
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", c.Number),
					name,
					c.StartsAt.Format("2006-01-02"),
					c.EndsAt.Format("2006-01-02"),
				})
			}
			out.Print(ui.RenderTable([]string{"#", "NAME", "STARTS", "ENDS"}, rows))
			return nil
		},
	}
	list.Flags().StringVarP(&team, "team", "t", "", "Team key, e.g. ENG")

	cmd.AddCommand(list)
	return cmd
}
