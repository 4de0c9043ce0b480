package cmd

import (
	"fmt"

	"github.com/matheuskafuri/caniuse/internal/caniuse"
	"github.com/matheuskafuri/caniuse/internal/tui"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse [search_term]",
	Short: "Search and inspect features interactively",
	Long: `Open the interactive browser: search repeatedly, move through matching
features and preview their compatibility tables. Repeat searches within a
session are answered from memory.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", caniuse.ErrUsage, err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		var term string
		if len(args) == 1 {
			term = args[0]
		}

		client := env.client(caniuse.NewMemoryStore(env.cfg.CacheTTL()))
		return tui.Run(tui.RunOpts{
			Client:  client,
			Term:    term,
			Timeout: 3 * env.cfg.TimeoutDuration(),
		})
	},
}
