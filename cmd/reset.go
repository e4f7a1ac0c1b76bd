package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/drillbot/internal/universe"
)

var resetCmd = &cobra.Command{
	Use:   "reset <domain>",
	Short: "Forget a learner's progress in a domain",
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
		if err := a.records.Clear(cmd.Context(), universe.DomainKey(d.Key, learnerID)); err != nil {
			return err
		}
		fmt.Printf("🔄 Progress in %s cleared for learner %d.\n", d.Title, learnerID)
		return nil
	},
}

func init() {
	addLearnerFlag(resetCmd)
	rootCmd.AddCommand(resetCmd)
}
