package main

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vscraper/internal/app"
	"vscraper/internal/ui"
)

func newHistoryCmd(opts *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent download attempts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), opts.dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			attempts, err := store.RecentAttempts(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printer := ui.NewPrinter(cmd.OutOrStdout())
			if len(attempts) == 0 {
				printer.Plain("No download attempts recorded.")
				return nil
			}
			for _, a := range attempts {
				age := humanize.Time(a.AttemptedAt)
				if a.Status == app.StatusSuccess {
					printer.Success("%s (%s, %s)", a.URL, a.Strategy, age)
				} else {
					printer.Error("%s (%s, %s)", a.URL, a.Strategy, age)
				}
				if a.Filename != "" {
					printer.Detail("saved as %s", a.Filename)
				}
				if a.Error != "" {
					printer.Detail("%s", a.Error)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of attempts to show")
	return cmd
}
