package cli

import (
	"fmt"

	"github.com/axellelanca/adtracker/cmd"
	"github.com/axellelanca/adtracker/internal/database"
	"github.com/spf13/cobra"
)

// MigrateCmd represents the 'migrate' command
// This command handles database schema creation and updates
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Executes database migrations to create or update tables.",
	Long: `This command connects to the configured database (SQLite)
and executes GORM automatic migrations to create the users, advertisements,
click_operations and sessions tables based on the Go models.`,
	RunE: func(c *cobra.Command, args []string) error {
		db, err := database.OpenAndMigrate(cmd.Cfg.Database.Name)
		if err != nil {
			return err
		}
		defer database.Close(db)

		fmt.Fprintln(c.OutOrStdout(), "Database migrations executed successfully.")
		return nil
	},
}

func init() {
	cmd.RootCmd.AddCommand(MigrateCmd)
}
