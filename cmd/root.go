package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/matheuskafuri/caniuse/internal/caniuse"
	"github.com/matheuskafuri/caniuse/internal/update"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig  string
	flagDebug   bool
	flagTimeout string
	flagCache   bool
	flagRefresh bool
	flagOpen    bool
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "caniuse <search_term>",
	Short: "Browser compatibility lookup",
	Long: `caniuse searches caniuse.com for web platform features matching a term
and prints their browser support as a table.

Set CANIUSE_DEBUG=1 (or pass --debug) to log every request to stderr.`,
	Example:       "  caniuse websocket\n  caniuse \"css grid\" --open",
	Args:          searchTermArg,
	RunE:          runLookup,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "log requests and responses to stderr")
	rootCmd.PersistentFlags().StringVar(&flagTimeout, "timeout", "", "per-request timeout (e.g., 10s)")
	rootCmd.PersistentFlags().BoolVar(&flagCache, "cache", false, "serve repeat lookups from the local response cache")
	rootCmd.PersistentFlags().BoolVar(&flagRefresh, "refresh", false, "ignore cached responses and fetch fresh ones")
	rootCmd.Flags().BoolVar(&flagOpen, "open", false, "open the first feature's MDN page in the browser")
	rootCmd.Flags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", caniuse.ErrUsage, err)
	})

	versionCmd.Flags().BoolVar(&flagCheck, "check", false, "check GitHub for a newer release")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(statsCmd)
}

func searchTermArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected exactly one <search_term>, got %d arguments", caniuse.ErrUsage, len(args))
	}
	if strings.TrimSpace(args[0]) == "" {
		return fmt.Errorf("%w: search term is empty", caniuse.ErrUsage)
	}
	return nil
}

var flagCheck bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "caniuse %s (commit: %s, built: %s)\n", version, commit, date)
		if !flagCheck {
			return
		}
		if r := update.Check(cmd.Context(), version); r != nil {
			fmt.Fprintf(out, "A newer release is available: %s\n", r.LatestVersion)
		} else {
			fmt.Fprintln(out, "You are on the latest release.")
		}
	},
}

// Execute runs the CLI and exits: 0 on success, 2 on usage errors, 1 otherwise.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	cmd, err := rootCmd.ExecuteContextC(ctx)
	switch {
	case err == nil:
	case errors.Is(err, caniuse.ErrNoResults):
		// reported by the lookup itself
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, caniuse.ErrUsage) && cmd != nil {
			fmt.Fprint(stderr, cmd.UsageString())
		}
	}
	return ExitCode(err)
}

// ExitCode maps an error returned by a command to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, caniuse.ErrUsage):
		return 2
	default:
		return 1
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	caniuse.SetVersion(v)
}
