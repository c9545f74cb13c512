package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bilancio/internal/core"
	"bilancio/internal/forecast"
)

func newForecastCommand() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "forecast <account-id>",
		Short: "Print an account's forecast and outstanding schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var accountID int64
			if _, err := fmt.Sscanf(args[0], "%d", &accountID); err != nil || accountID <= 0 {
				return fmt.Errorf("invalid account id %q", args[0])
			}

			today := core.DateOf(time.Now())
			if date != "" {
				t, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
				}
				today = core.DateOf(t)
			}

			repo, err := openRepository()
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer repo.Close()

			snap, err := repo.LoadSnapshot(cmd.Context(), accountID, today)
			if err != nil {
				return fmt.Errorf("loading account %d: %w", accountID, err)
			}
			res, err := forecast.Compute(snap)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "account:  %s (as of %s)\n", snap.Account.Name, today.ISO())
			fmt.Fprintf(out, "current:  %s\n", core.FormatCents(res.CurrentCents))
			fmt.Fprintf(out, "forecast: %s\n", core.FormatCents(res.ForecastCents))
			if res.LowestNextMonthCents < 0 {
				fmt.Fprintf(out, "warning:  projected low of %s early next month\n",
					core.FormatCents(res.LowestNextMonthCents))
			}

			if len(res.Schedule) > 0 {
				fmt.Fprintln(out, "\noutstanding:")
				for _, occ := range res.Schedule {
					marker := " "
					if occ.IsOverdue {
						marker = "!"
					}
					fmt.Fprintf(out, "  %s %s  %10s  %s\n",
						marker, occ.DueDate.ISO(), core.FormatCents(occ.SignedCents), occ.Label)
				}
			}
			for _, warning := range res.Warnings {
				fmt.Fprintf(out, "skipped %q: %s\n", warning.Label, warning.Reason)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "compute as of this date (YYYY-MM-DD)")

	return cmd
}
