package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/drillbot/internal/spaced_repetition"
	"github.com/example/drillbot/internal/universe"
)

var statsCmd = &cobra.Command{
	Use:   "stats <domain>",
	Short: "Show a learner's progress in a domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		d, err := domainArg(a, args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		items, err := d.Provider.Items(ctx)
		if err != nil {
			return err
		}
		store, err := a.records.Load(ctx, universe.DomainKey(d.Key, learnerID))
		if err != nil {
			return err
		}

		origin, err := deckOrigin(ctx, a.items, d)
		if err != nil {
			return err
		}

		now := time.Now()
		out := cmd.OutOrStdout()
		printSummary(out, d.Title, spaced_repetition.Summarize(items, store, now), now)
		fmt.Fprintf(out, "Deck:      %s\n", origin)
		return nil
	},
}

func init() {
	addLearnerFlag(statsCmd)
	rootCmd.AddCommand(statsCmd)
}

// deckCounter reports how many items were imported for a domain
type deckCounter interface {
	Count(ctx context.Context, domain string) (int, error)
}

// deckOrigin tells whether a domain drills an imported, built-in or generated deck
func deckOrigin(ctx context.Context, counter deckCounter, d universe.Domain) (string, error) {
	if d.Key == universe.Math {
		return "generated", nil
	}
	n, err := counter.Count(ctx, d.Key)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "built-in", nil
	}
	return fmt.Sprintf("imported (%d items)", n), nil
}

func printSummary(out io.Writer, title string, s spaced_repetition.Summary, now time.Time) {
	fmt.Fprintf(out, "📊 %s\n", title)
	fmt.Fprintln(out, "-------------")
	fmt.Fprintf(out, "Items:     %d\n", s.Total)
	fmt.Fprintf(out, "Seen:      %d\n", s.Seen)
	fmt.Fprintf(out, "Due now:   %d\n", s.Due)
	fmt.Fprintf(out, "Mastered:  %d\n", s.Mastered)
	fmt.Fprintf(out, "Accuracy:  %.0f%% of %d answers\n", s.Accuracy*100, s.Attempts)
	if !s.NextReview.IsZero() {
		fmt.Fprintf(out, "Next:      %s (in %s)\n",
			s.NextReview.Local().Format("2006-01-02 15:04"), s.NextReview.Sub(now).Round(time.Minute))
	}
}
