package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/axellelanca/adtracker/cmd"
	"github.com/axellelanca/adtracker/internal/app"
	apperrors "github.com/axellelanca/adtracker/internal/errors"
	"github.com/spf13/cobra"
)

// StatsCmd représente la commande 'stats'
var StatsCmd = &cobra.Command{
	Use:   "stats [advert-id]",
	Short: "Get statistics for an advertisement",
	Long:  `Prints the remaining budget, the click count and the number of logged click operations of an advertisement.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	cmd.RootCmd.AddCommand(StatsCmd)
}

// runStats exécute la logique pour la commande stats
func runStats(c *cobra.Command, args []string) error {
	name := args[0]
	ctx := context.Background()

	a, err := app.New(ctx, cmd.Cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ad, logged, err := a.Adverts.Stats(ctx, name)
	if err != nil {
		if errors.Is(err, apperrors.ErrAdvertisementNotFound) {
			return fmt.Errorf("advertisement '%s' not found: %w", name, err)
		}
		return fmt.Errorf("retrieving statistics: %w", err)
	}

	out := c.OutOrStdout()
	fmt.Fprintf(out, "Statistiques pour la publicité: %s\n", ad.Name)
	fmt.Fprintf(out, "Budget restant: %.2f\n", ad.RemainingBudget)
	fmt.Fprintf(out, "Total de clics: %d\n", ad.ClickCount)
	fmt.Fprintf(out, "Opérations enregistrées: %d\n", logged)
	fmt.Fprintf(out, "Date de publication: %s\n", ad.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}
