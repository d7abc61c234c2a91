package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vytor/flashdeck/internal/watch"
)

func (c *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <glob>...",
		Short: "Import cards from CSV files (front,back per row)",
		Long: `Import reads every CSV file matching each pattern. Patterns support
doublestar syntax, e.g. "decks/**/*.csv". Rows without a front and a back
are skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			total := 0
			for _, pattern := range args {
				n, err := c.app.Import.ImportFiles(ctxOf(cmd), pattern)
				if err != nil {
					return err
				}
				total += n
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d cards\n", total)
			return nil
		},
	}
}

func (c *cli) listCmd() *cobra.Command {
	var natural bool
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards in deck order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			if natural {
				cards, err := c.app.Deck.NaturalDeck(ctx)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), output, cards, cardTable(cards, -1))
			}
			session, err := c.app.Deck.Session(ctx)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), output, session, cardTable(session.Cards, session.CurrentIndex))
		},
	}
	cmd.Flags().BoolVar(&natural, "natural", false, "List in insertion order instead of deck order")
	cmd.Flags().StringVarP(&output, "output", "o", formatTable, "Output format: table, json or yaml")
	return cmd
}

func (c *cli) favoritesCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "List favorite cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cards, err := c.app.Deck.Favorites(ctxOf(cmd))
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), output, cards, cardTable(cards, -1))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", formatTable, "Output format: table, json or yaml")
	return cmd
}

func (c *cli) countCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.app.Deck.Count(ctxOf(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func (c *cli) shuffleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shuffle",
		Short: "Reshuffle the deck and go back to the first card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Deck.RegenerateRandomOrder(ctxOf(cmd)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deck shuffled")
			return nil
		},
	}
}

func (c *cli) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Deck.Clear(ctxOf(cmd)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deck cleared")
			return nil
		},
	}
}

func (c *cli) navigateCmd(use, short string, delta int) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			if _, err := c.app.Deck.Step(ctx, delta); err != nil {
				return err
			}
			session, err := c.app.Deck.Session(ctx)
			if err != nil {
				return err
			}
			printCard(cmd.OutOrStdout(), session.CurrentIndex, session.Total, session.Current)
			return nil
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid card id %q", raw)
	}
	return id, nil
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			deleted, err := c.app.Deck.Delete(ctxOf(cmd), id)
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintf(cmd.OutOrStdout(), "card %d not found\n", id)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "card %d deleted\n", id)
			return nil
		},
	}
}

func (c *cli) favoriteCmd() *cobra.Command {
	var set bool

	cmd := &cobra.Command{
		Use:   "favorite <id>",
		Short: "Toggle a card's favorite flag, or set it with --set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := ctxOf(cmd)
			if cmd.Flags().Changed("set") {
				updated, err := c.app.Deck.SetFavorite(ctx, id, set)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "card %d favorite=%t\n", updated.ID, updated.Favorite)
				return nil
			}
			updated, err := c.app.Deck.ToggleFavorite(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "card %d favorite=%t\n", updated.ID, updated.Favorite)
			return nil
		},
	}
	cmd.Flags().BoolVar(&set, "set", false, "Set the flag to this value instead of toggling")
	return cmd
}

func (c *cli) watchCmd() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <csv>",
		Short: "Replace the deck with a CSV file now and on every change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			out := cmd.OutOrStdout()
			ctx, stop := signal.NotifyContext(ctxOf(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reload := func(ctx context.Context) error {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()
				n, err := c.app.Import.ReplaceCSV(ctx, f)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "loaded %d cards from %s\n", n, path)
				return nil
			}

			if err := reload(ctx); err != nil {
				return err
			}
			return watch.New(path, debounce, reload).Run(ctx)
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Wait this long after the last change before reloading")
	return cmd
}
