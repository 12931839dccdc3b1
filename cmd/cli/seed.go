package cli

import (
	"context"
	"fmt"

	"github.com/axellelanca/adtracker/cmd"
	"github.com/axellelanca/adtracker/internal/app"
	"github.com/spf13/cobra"
)

// SeedCmd imports the images already present in the image directory as advertisements.
var SeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Creates a ledger row for every image in the image directory.",
	Long: `Each numeric image in the configured image directory that has no advertisement yet
gets one with the starting budget and zero clicks. Existing rows are left untouched.`,
	RunE: func(c *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := app.New(ctx, cmd.Cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		created, err := a.Adverts.Seed(ctx)
		if err != nil {
			return fmt.Errorf("seeding advertisements: %w", err)
		}

		if len(created) == 0 {
			fmt.Fprintln(c.OutOrStdout(), "Nothing to seed, every image already has an advertisement.")
			return nil
		}
		fmt.Fprintf(c.OutOrStdout(), "%d advertisement(s) created: %v\n", len(created), created)
		return nil
	},
}

func init() {
	cmd.RootCmd.AddCommand(SeedCmd)
}
