package main

import (
	"github.com/spf13/cobra"

	"github.com/lincli/lin/internal/output"
)

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "sync",
		Short:   "Refresh team and project metadata",
		GroupID: GroupMeta,
		Args:    cobra.NoArgs,
		Long: `Fetch all teams with their workflow states, labels and estimate
scales, plus all projects, and replace the local metadata in one step.
Name resolution runs against this metadata.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			sess, err := newSession(ctx)
			if err != nil {
				return err
			}

			summary, err := sess.orchestrator().Sync(ctx)
			if err != nil {
				return err
			}

			if out.JSON() {
				return out.EncodeJSON(summary)
			}
			out.Printf("Synced %s: %d teams, %d states, %d labels, %d projects\n",
				summary.Org, summary.Teams, summary.States, summary.Labels, summary.Projects)
			return nil
		},
	}
}
