package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/vytor/flashdeck/internal/app"
	"github.com/vytor/flashdeck/internal/config"
	"github.com/vytor/flashdeck/internal/logger"
)

// cli carries state shared by every subcommand.
type cli struct {
	dbPath  string
	engine  string
	verbose bool

	app    *app.App
	closed bool
}

// execute runs root and then closes whatever storage it opened. Cobra skips
// post-run hooks when a command fails, so the close happens here.
func (c *cli) execute(root *cobra.Command) error {
	err := root.Execute()
	return errors.Join(err, c.close())
}

func (c *cli) close() error {
	if c.app == nil || c.closed {
		return nil
	}
	c.closed = true
	return c.app.Close()
}

func (c *cli) rootCmd() *cobra.Command {
	cfg := config.Load()

	root := &cobra.Command{
		Use:   "deckctl",
		Short: "Manage a flashdeck card deck from the terminal",
		Long: `deckctl reads and edits the same deck the flashdeck server uses.
Every command that changes the set of cards reshuffles the deck and
moves the position back to the first card.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logger.WARN
			if c.verbose {
				level = logger.DEBUG
			}
			logger.SetDefault(logger.New(
				logger.WithLevel(level),
				logger.WithOutput(cmd.ErrOrStderr()),
			))

			cfg.DBPath = c.dbPath
			cfg.StorageEngine = c.engine
			if err := cfg.Validate(); err != nil {
				return err
			}
			a, err := app.Open(ctxOf(cmd), cfg, nil)
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.dbPath, "db", cfg.DBPath, "SQLite database path (DB_PATH)")
	root.PersistentFlags().StringVar(&c.engine, "engine", cfg.StorageEngine, "storage engine: sqlite or memory (STORAGE_ENGINE)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		c.importCmd(),
		c.listCmd(),
		c.favoritesCmd(),
		c.countCmd(),
		c.shuffleCmd(),
		c.clearCmd(),
		c.navigateCmd("next", "Move to the next card", 1),
		c.navigateCmd("prev", "Move to the previous card", -1),
		c.deleteCmd(),
		c.favoriteCmd(),
		c.watchCmd(),
	)
	return root
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
