package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lincli/lin/internal/api"
	"github.com/lincli/lin/internal/cache"
	"github.com/lincli/lin/internal/log"
	"github.com/lincli/lin/internal/output"
)

func newSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "search <term>...",
		Short:   "Full-text search over issues",
		GroupID: GroupIssues,
		Args:    cobra.MinimumNArgs(1),
		Example: `  lin search login crash
  lin search "rate limit" --limit 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)
			term := strings.Join(args, " ")

			sess, err := newSession(ctx)
			if err != nil {
				return err
			}

			cacheKey := cache.Fingerprint("search", []string{term, fmt.Sprintf("limit=%d", limit)})
			var issues []api.Issue
			if sess.Cache.Get(cache.TypeSearch, cacheKey, &issues) {
				l.Debug("search served from cache")
			} else {
				issues, err = sess.Client.SearchIssues(ctx, term, limit)
				if err != nil {
					return err
				}
				if err := sess.Cache.Put(cache.TypeSearch, cacheKey, issues); err != nil {
					l.Debug("cache write failed", "error", err)
				}
			}

			return printIssues(out, issues)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 25, "Maximum number of results")

	return cmd
}
