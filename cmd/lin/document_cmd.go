package main

import (
	"github.com/spf13/cobra"

	"github.com/lincli/lin/internal/api"
	"github.com/lincli/lin/internal/cache"
	"github.com/lincli/lin/internal/format"
	"github.com/lincli/lin/internal/log"
	"github.com/lincli/lin/internal/output"
	"github.com/lincli/lin/internal/ui"
)

func newDocumentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "document",
		Short:   "List documents",
		Aliases: []string{"doc"},
		GroupID: GroupMeta,
	}

	list := &cobra.Command{
		Use:     "list",
		Short:   "List documents",
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

			cacheKey := cache.Fingerprint("document list", nil)
			var docs []api.Document
			if sess.Cache.Get(cache.TypeDocuments, cacheKey, &docs) {
				l.Debug("document list served from cache")
			} else {
				docs, err = sess.Client.Documents(ctx)
				if err != nil {
					return err
				}
				if err := sess.Cache.Put(cache.TypeDocuments, cacheKey, docs); err != nil {
					l.Debug("cache write failed", "error", err)
				}
			}

			if out.JSON() {
				return out.EncodeJSON(docs)
			}
			if len(docs) == 0 {
				out.Println("No documents found.")
				return nil
			}

			var rows [][]string
			for _, d := range docs {
				project := ""
				if d.Project != nil {
					project = d.Project.Name
				}
				rows = append(rows, []string{
					format.Truncate(d.Title, 50),
					project,
					format.RelativeTime(d.UpdatedAt),
				})
			}
			out.Print(ui.RenderTable([]string{"TITLE", "PROJECT", "UPDATED"}, rows))
			return nil
		},
	}

	cmd.AddCommand(list)
	return cmd
}
