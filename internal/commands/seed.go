package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"bilancio/internal/core"
)

func newSeedCommand() *cobra.Command {
	var name string
	var balance string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo account with typical obligations",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepository()
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer repo.Close()
			ctx := cmd.Context()

			cents, err := core.ParseSignedDecimalToCents(balance)
			if err != nil {
				return fmt.Errorf("invalid balance %q: %w", balance, err)
			}

			accountID, err := repo.CreateAccount(ctx, core.Account{
				Name:           name,
				InitialBalance: core.Money{Cents: cents},
				IsActive:       true,
			})
			if err != nil {
				return fmt.Errorf("creating account: %w", err)
			}

			subs, err := repo.ListSubCategories(ctx)
			if err != nil {
				return fmt.Errorf("listing sub-categories: %w", err)
			}
			byName := make(map[string]int64, len(subs))
			for _, sc := range subs {
				byName[sc.Name] = sc.ID
			}

			obligations := []core.RecurringObligation{
				{Label: "Salary", Amount: core.Money{Cents: 210000}, DayOfMonth: 27, Frequency: core.Monthly, SubCategoryID: byName["Salary"], Flow: core.FlowIncome},
				{Label: "Rent", Amount: core.Money{Cents: 85000}, DayOfMonth: 1, Frequency: core.Monthly, SubCategoryID: byName["Rent"], Flow: core.FlowExpense},
				{Label: "Groceries", Amount: core.Money{Cents: 9000}, DayOfMonth: 6, Frequency: core.Weekly, SubCategoryID: byName["Groceries"], Flow: core.FlowExpense},
				{Label: "Electricity", Amount: core.Money{Cents: 12000}, DayOfMonth: 15, Frequency: core.Bimonthly, SubCategoryID: byName["Utilities"], Flow: core.FlowExpense},
				{Label: "Car insurance", Amount: core.Money{Cents: 42000}, DayOfMonth: 10, Frequency: core.Biannual, SubCategoryID: byName["Insurance"], Flow: core.FlowExpense},
			}
			for i := range obligations {
				obligations[i].AccountID = accountID
				obligations[i].IsActive = true
				if _, err := repo.CreateObligation(ctx, obligations[i]); err != nil {
					return fmt.Errorf("creating obligation %q: %w", obligations[i].Label, err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded account %d (%s) with %d obligations\n",
				accountID, name, len(obligations))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Demo", "account name")
	cmd.Flags().StringVar(&balance, "balance", "1500", "initial balance")

	return cmd
}
