package main

import (
	"github.com/spf13/cobra"

	"github.com/lincli/lin/internal/api"
	"github.com/lincli/lin/internal/cache"
	"github.com/lincli/lin/internal/log"
	"github.com/lincli/lin/internal/output"
	"github.com/lincli/lin/internal/ui"
)

func newLabelCmd() *cobra.Command {
	var team string

	cmd := &cobra.Command{
		Use:     "label",
		Short:   "List a team's labels",
		GroupID: GroupMeta,
	}

	list := &cobra.Command{
		Use:     "list",
		Short:   "List labels",
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

			cacheKey := cache.Fingerprint("label list", []string{teamID})
			var labels []api.Label
			if sess.Cache.Get(cache.TypeLabels, cacheKey, &labels) {
				l.Debug("label list served from cache")
			} else {
				labels, err = sess.Client.TeamLabels(ctx, teamID)
				if err != nil {
					return err
				}
				if err := sess.Cache.Put(cache.TypeLabels, cacheKey, labels); err != nil {
					l.Debug("cache write failed", "error", err)
				}
			}

			if out.JSON() {
				return out.EncodeJSON(labels)
			}
			if len(labels) == 0 {
				out.Println("No labels found.")
				return nil
			}

			var rows [][]string
			for _, label := range labels {
				rows = append(rows, []string{label.Name, label.Color})
			}
			out.Print(ui.RenderTable([]string{"NAME", "COLOR"}, rows))
			return nil
		},
	}
	list.Flags().StringVarP(&team, "team", "t", "", "Team key, e.g. ENG")

	cmd.AddCommand(list)
	return cmd
}
