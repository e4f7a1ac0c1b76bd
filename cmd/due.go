package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/drillbot/internal/spaced_repetition"
	"github.com/example/drillbot/internal/universe"
)

var dueAll bool

var dueCmd = &cobra.Command{
	Use:   "due <domain>",
	Short: "Show items due for review",
	Long: `Show the items of a domain a learner should review now.
With --all, show how many items are due for every learner of the domain.`,
	Args: cobra.ExactArgs(1),
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
		now := time.Now()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		defer w.Flush()

		if dueAll {
			keys, err := a.records.ListKeys(ctx, d.Key+":")
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "Learner\tDue\tSeen\tNext Review")
			fmt.Fprintln(w, "-------\t---\t----\t-----------")
			for _, key := range keys {
				_, id, err := universe.ParseDomainKey(key)
				if err != nil {
					continue
				}
				store, err := a.records.Load(ctx, key)
				if err != nil {
					return err
				}
				s := spaced_repetition.Summarize(items, store, now)
				fmt.Fprintf(w, "%d\t%d\t%d\t%s\n", id, s.Due, s.Seen, formatTime(s.NextReview))
			}
			return nil
		}

		store, err := a.records.Load(ctx, universe.DomainKey(d.Key, learnerID))
		if err != nil {
			return err
		}
		due := spaced_repetition.DueItems(items, store, now)
		if len(due) == 0 {
			fmt.Println("✅ Nothing due right now! Good job.")
			return nil
		}

		fmt.Printf("🔥 %d of %d items due:\n\n", len(due), len(items))
		fmt.Fprintln(w, "Item\tAnswer\tStage\tAccuracy")
		fmt.Fprintln(w, "----\t------\t-----\t--------")
		for _, item := range due {
			stage, accuracy := "new", "-"
			if rec := store.Get(item.Key); rec != nil {
				stage = fmt.Sprintf("%d", rec.ReviewStage+1)
				accuracy = fmt.Sprintf("%.0f%%", rec.Accuracy()*100)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", item.Key, item.Answer, stage, accuracy)
		}
		return nil
	},
}

func init() {
	addLearnerFlag(dueCmd)
	dueCmd.Flags().BoolVar(&dueAll, "all", false, "summarize every learner of the domain")
	rootCmd.AddCommand(dueCmd)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
