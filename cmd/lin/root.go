package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lincli/lin/internal/config"
	"github.com/lincli/lin/internal/log"
	"github.com/lincli/lin/internal/output"
	"github.com/lincli/lin/internal/ui"
)

var (
	// Global flags
	verbose  bool
	quiet    bool
	jsonOut  bool
	noCache  bool
	apiToken string
	orgName  string

	// Shared state injected into commands
	cfg *config.Config
)

// Command group IDs for organizing help output
const (
	GroupIssues = "issues"
	GroupMeta   = "meta"
	GroupAuth   = "auth"
	GroupConfig = "config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lin",
	Short: "Linear issue tracking from the command line",
	Long: `lin is a CLI client for the Linear issue tracker.

It resolves team keys, state names and estimate scales locally from
synced metadata, and caches API responses on disk so repeated queries
stay fast and cheap.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2, // Enable typo suggestions
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose && quiet {
			return fmt.Errorf("--verbose and --quiet are mutually exclusive")
		}

		// Flags are parsed by now, wire the logger and printer here.
		ctx := cmd.Context()
		ctx = log.WithLogger(ctx, log.New(os.Stderr, verbose, quiet))
		format := output.DetectFormat(jsonOut || cfg.Output == "json", os.Stdout)
		ctx = output.WithPrinter(ctx, output.New(os.Stdout, format))
		cmd.SetContext(ctx)

		ui.SetColorEnabled(colorWanted(cfg.Color, os.Stdout))
		return nil
	},
	// Run is not set - shows help when no subcommand provided
}

// colorWanted applies the "color" setting: always and never are
// unconditional, auto follows whether stdout is a terminal.
func colorWanted(setting string, stdout *os.File) bool {
	switch setting {
	case "always":
		return true
	case "never":
		return false
	default:
		return isatty.IsTerminal(stdout.Fd())
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Load settings
	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	cfg = &loadedCfg

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Store context for commands to use
	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'lin -h' for help")
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Skip the response cache for this invocation")
	rootCmd.PersistentFlags().StringVar(&apiToken, "api-token", "", "API token (overrides stored credentials)")
	rootCmd.PersistentFlags().StringVar(&orgName, "org", "", "Organization to act on (default: active org)")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Add command groups for organized help output
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupIssues, Title: "Issue Commands:"},
		&cobra.Group{ID: GroupMeta, Title: "Metadata Commands:"},
		&cobra.Group{ID: GroupAuth, Title: "Auth Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Issue commands
	rootCmd.AddCommand(newIssueCmd())
	rootCmd.AddCommand(newSearchCmd())

	// Metadata commands
	rootCmd.AddCommand(newTeamCmd())
	rootCmd.AddCommand(newLabelCmd())
	rootCmd.AddCommand(newProjectCmd())
	rootCmd.AddCommand(newCycleCmd())
	rootCmd.AddCommand(newDocumentCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newCacheCmd())

	// Auth commands
	rootCmd.AddCommand(newAuthCmd())

	// Config commands
	rootCmd.AddCommand(newConfigCmd())
}
