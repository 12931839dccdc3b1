package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/axellelanca/adtracker/cmd"
	"github.com/axellelanca/adtracker/internal/app"
	apperrors "github.com/axellelanca/adtracker/internal/errors"
	"github.com/axellelanca/adtracker/internal/services"
	"github.com/spf13/cobra"
)

var imageFileFlag string

// PublishCmd représente la commande 'publish'
var PublishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publie une image comme nouvelle publicité.",
	Long: `Cette commande copie l'image dans le répertoire des publicités sous l'identifiant suivant
et crée sa ligne de budget. La preuve doit être présente, comme pour le site.

Exemple:
  adtracker publish --file=./banner.png`,
	RunE: runPublish,
}

func init() {
	PublishCmd.Flags().StringVar(&imageFileFlag, "file", "", "Path of the image to publish")
	PublishCmd.MarkFlagRequired("file")
	cmd.RootCmd.AddCommand(PublishCmd)
}

func runPublish(c *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := app.New(ctx, cmd.Cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Gate.Check(); err != nil {
		return fmt.Errorf("proof %s is missing, publishing is refused: %w", a.Gate.Path(), err)
	}

	f, err := os.Open(imageFileFlag)
	if err != nil {
		return err
	}
	defer f.Close()

	ad, err := a.Adverts.Publish(ctx, services.PublishRequest{
		Filename: filepath.Base(imageFileFlag),
		Content:  f,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidImageFormat) {
			return fmt.Errorf("only jpg, jpeg and png images can be published: %w", err)
		}
		return fmt.Errorf("publishing advertisement: %w", err)
	}

	out := c.OutOrStdout()
	fmt.Fprintf(out, "Publicité publiée avec succès:\n")
	fmt.Fprintf(out, "Identifiant: %s\n", ad.Name)
	fmt.Fprintf(out, "Budget: %.2f\n", ad.RemainingBudget)
	fmt.Fprintf(out, "URL: %s/advert/%s\n", cmd.Cfg.Server.BaseURL, ad.Name)
	return nil
}
