package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lincli/lin/internal/cache"
	"github.com/lincli/lin/internal/output"
	"github.com/lincli/lin/internal/ui"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		Short:   "Inspect and manage the response cache",
		GroupID: GroupMeta,
	}

	cmd.AddCommand(newCacheStatusCmd())
	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCachePruneCmd())

	return cmd
}

func newCacheStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show cache entry counts and size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			c, err := cache.Default()
			if err != nil {
				return err
			}
			stats, err := c.Stats()
			if err != nil {
				return err
			}

			if out.JSON() {
				return out.EncodeJSON(stats)
			}

			rows := [][]string{
				{"Entries", strconv.Itoa(stats.Total)},
				{"Valid", strconv.Itoa(stats.Valid)},
				{"Expired", strconv.Itoa(stats.Expired)},
				{"Size", stats.FormattedSize()},
				{"Location", c.Dir()},
			}
			out.Print(ui.RenderTable([]string{"", ""}, rows))
			return nil
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			c, err := cache.Default()
			if err != nil {
				return err
			}
			removed, err := c.Clear()
			if err != nil {
				return err
			}

			if out.JSON() {
				return out.EncodeJSON(map[string]int{"removed": removed})
			}
			out.Printf("Removed %d cache entries\n", removed)
			return nil
		},
	}
}

func newCachePruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired cached responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			c, err := cache.Default()
			if err != nil {
				return err
			}
			removed, err := c.PurgeExpired()
			if err != nil {
				return err
			}

			if out.JSON() {
				return out.EncodeJSON(map[string]int{"removed": removed})
			}
			out.Printf("Removed %d expired cache entries\n", removed)
			return nil
		},
	}
}
