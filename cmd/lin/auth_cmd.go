package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lincli/lin/internal/api"
	"github.com/lincli/lin/internal/format"
	"github.com/lincli/lin/internal/log"
	"github.com/lincli/lin/internal/output"
	"github.com/lincli/lin/internal/store"
	"github.com/lincli/lin/internal/sync"
	"github.com/lincli/lin/internal/ui"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		Short:   "Manage organization credentials",
		GroupID: GroupAuth,
	}

	cmd.AddCommand(newAuthAddCmd())
	cmd.AddCommand(newAuthListCmd())
	cmd.AddCommand(newAuthSwitchCmd())
	cmd.AddCommand(newAuthRemoveCmd())
	cmd.AddCommand(newAuthStatusCmd())

	return cmd
}

func newAuthAddCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "add <org> [token]",
		Short: "Store credentials for an organization",
		Args:  cobra.RangeArgs(1, 2),
		Long: `Store an API token for an organization and switch to it. The token is
verified against the API before saving, and an initial metadata sync
runs so names resolve right away.`,
		Example: `  lin auth add acme lin_api_...
  lin auth add acme --token lin_api_...
  LIN_API_TOKEN=lin_api_... lin auth add acme`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)
			org := args[0]

			if token == "" && len(args) == 2 {
				token = args[1]
			}
			if token == "" {
				token = os.Getenv(tokenEnvVar)
			}
			if token == "" {
				return fmt.Errorf("no token given: pass --token or set %s", tokenEnvVar)
			}

			endpoint := ""
			if cfg != nil {
				endpoint = cfg.Endpoint
			}
			client := api.NewWithEndpoint(token, endpoint)

			viewer, err := client.Viewer(ctx)
			if err != nil {
				return fmt.Errorf("token verification failed: %w", err)
			}
			l.Debug("token verified", "user", viewer.DisplayName)

			s, err := store.Default()
			if err != nil {
				return err
			}
			doc, err := s.Load()
			if err != nil {
				return err
			}
			doc.AddOrg(org, token)
			if err := doc.SwitchOrg(org); err != nil {
				return err
			}
			if err := s.Save(doc); err != nil {
				return err
			}

			out.Printf("Authenticated %s as %s\n", org, viewer.DisplayName)

			o := &sync.Orchestrator{Client: client, Store: s, Org: org}
			summary, err := o.Sync(ctx)
			if err != nil {
				l.Printf("Warning: initial sync failed: %v\n", err)
				return nil
			}
			out.Printf("Synced %d teams and %d projects\n", summary.Teams, summary.Projects)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "API token for the organization")

	return cmd
}

func newAuthListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List configured organizations",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			s, err := store.Default()
			if err != nil {
				return err
			}
			doc, err := s.Load()
			if err != nil {
				return err
			}

			if out.JSON() {
				type orgDisplay struct {
					Name     string `json:"name"`
					Active   bool   `json:"active"`
					Teams    int    `json:"teams"`
					LastSync string `json:"last_sync"`
				}
				var orgs []orgDisplay
				for _, name := range doc.OrgNames() {
					org := doc.Orgs[name]
					orgs = append(orgs, orgDisplay{
						Name:     name,
						Active:   name == doc.ActiveOrg,
						Teams:    len(org.Cache.Teams),
						LastSync: format.RelativeTime(org.Cache.LastSync),
					})
				}
				return out.EncodeJSON(orgs)
			}

			if len(doc.Orgs) == 0 {
				out.Println("No organizations configured. Run 'lin auth add' to get started.")
				return nil
			}

			var rows [][]string
			for _, name := range doc.OrgNames() {
				org := doc.Orgs[name]
				active := ""
				if name == doc.ActiveOrg {
					active = ui.Success("*")
				}
				rows = append(rows, []string{
					active,
					name,
					strconv.Itoa(len(org.Cache.Teams)),
					format.RelativeTime(org.Cache.LastSync),
				})
			}
			out.Print(ui.RenderTable([]string{"", "ORG", "TEAMS", "LAST SYNC"}, rows))
			return nil
		},
	}
}

func newAuthSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <org>",
		Short: "Change the active organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			s, err := store.Default()
			if err != nil {
				return err
			}
			doc, err := s.Load()
			if err != nil {
				return err
			}
			if err := doc.SwitchOrg(args[0]); err != nil {
				return err
			}
			if err := s.Save(doc); err != nil {
				return err
			}

			out.Printf("Switched to %s\n", args[0])
			return nil
		},
	}
}

func newAuthRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <org>",
		Short:   "Forget an organization's credentials",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			s, err := store.Default()
			if err != nil {
				return err
			}
			doc, err := s.Load()
			if err != nil {
				return err
			}
			if err := doc.RemoveOrg(args[0]); err != nil {
				return err
			}
			if err := s.Save(doc); err != nil {
				return err
			}

			out.Printf("Removed %s\n", args[0])
			if doc.ActiveOrg != "" {
				out.Printf("Active organization is now %s\n", doc.ActiveOrg)
			}
			return nil
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active organization and token owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			sess, err := newSession(ctx)
			if err != nil {
				return err
			}

			viewer, err := sess.Client.Viewer(ctx)
			if err != nil {
				return fmt.Errorf("token check failed: %w", err)
			}

			if out.JSON() {
				status := map[string]any{
					"org":  sess.Org,
					"user": viewer,
				}
				if sess.UseCache {
					org, err := sess.org()
					if err == nil {
						status["last_sync"] = format.RelativeTime(org.Cache.LastSync)
					}
				}
				return out.EncodeJSON(status)
			}

			if sess.Org != "" {
				out.Printf("Organization: %s\n", sess.Org)
			} else {
				out.Println("Organization: (token from flag or environment)")
			}
			out.Printf("Logged in as: %s <%s>\n", viewer.DisplayName, viewer.Email)
			if sess.UseCache {
				if org, err := sess.org(); err == nil {
					out.Printf("Last sync:    %s\n", format.RelativeTime(org.Cache.LastSync))
				}
			}
			return nil
		},
	}
}
