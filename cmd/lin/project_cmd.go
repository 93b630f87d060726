package main

import (
	"github.com/spf13/cobra"

	"github.com/lincli/lin/internal/api"
	"github.com/lincli/lin/internal/cache"
	"github.com/lincli/lin/internal/log"
	"github.com/lincli/lin/internal/output"
	"github.com/lincli/lin/internal/ui"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Short:   "List projects",
		GroupID: GroupMeta,
	}

	list := &cobra.Command{
		Use:     "list",
		Short:   "List projects",
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

			cacheKey := cache.Fingerprint("project list", nil)
			var projects []api.Project
			if sess.Cache.Get(cache.TypeProjects, cacheKey, &projects) {
				l.Debug("project list served from cache")
			} else {
				projects, err = sess.Client.Projects(ctx)
				if err != nil {
					return err
				}
				if err := sess.Cache.Put(cache.TypeProjects, cacheKey, projects); err != nil {
					l.Debug("cache write failed", "error", err)
				}
			}

			if out.JSON() {
				return out.EncodeJSON(projects)
			}
			if len(projects) == 0 {
				out.Println("No projects found.")
				return nil
			}

			var rows [][]string
			for _, project := range projects {
				rows = append(rows, []string{project.Name, project.State})
			}
			out.Print(ui.RenderTable([]string{"NAME", "STATE"}, rows))
			return nil
		},
	}

	cmd.AddCommand(list)
	return cmd
}
