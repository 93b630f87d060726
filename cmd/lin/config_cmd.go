package main

import (
	"github.com/spf13/cobra"

	"github.com/lincli/lin/internal/config"
	"github.com/lincli/lin/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage lin settings",
		GroupID: GroupConfig,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented default settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			path, err := config.Init(force)
			if err != nil {
				return err
			}
			out.Printf("Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing settings file")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			if out.JSON() {
				return out.EncodeJSON(cfg)
			}

			path, _ := config.Path()
			out.Printf("Settings file: %s\n", path)
			out.Printf("output:        %s\n", cfg.Output)
			out.Printf("color:         %s\n", cfg.Color)
			if cfg.Endpoint != "" {
				out.Printf("endpoint:      %s\n", cfg.Endpoint)
			}
			if cfg.DefaultOrg != "" {
				out.Printf("default_org:   %s\n", cfg.DefaultOrg)
			}
			return nil
		},
	}
}
