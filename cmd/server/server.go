package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/axellelanca/adtracker/cmd"
	"github.com/axellelanca/adtracker/internal/api"
	"github.com/axellelanca/adtracker/internal/app"
	"github.com/axellelanca/adtracker/internal/logger"
	"github.com/axellelanca/adtracker/internal/monitor"
)

// RunServerCmd représente la commande 'run-server' de Cobra.
// C'est le point d'entrée pour lancer le serveur de l'application.
var RunServerCmd = &cobra.Command{
	Use:   "run-server",
	Short: "Lance le serveur HTTP de suivi des publicités.",
	Long: `Cette commande initialise la base de données, le répertoire d'images et les sessions,
démarre le moniteur de preuve puis lance le serveur HTTP.`,
	Run: func(c *cobra.Command, args []string) {
		cfg := cmd.Cfg
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg)
		if err != nil {
			logger.Log.Fatal("Échec de l'initialisation de l'application", zap.Error(err))
		}
		defer a.Close()

		if cfg.Monitor.IntervalSeconds > 0 {
			interval := time.Duration(cfg.Monitor.IntervalSeconds) * time.Second
			go monitor.NewReadinessMonitor(a.Gate, interval).Start(ctx)
		}

		gin.SetMode(gin.ReleaseMode)
		router := gin.New()
		router.Use(gin.Recovery())
		api.SetupRoutes(router, api.Deps{
			Auth:           a.Auth,
			Adverts:        a.Adverts,
			Gate:           a.Gate,
			ImageDir:       cfg.Images.Dir,
			CookieName:     cfg.Session.CookieName,
			CookieMaxAge:   int(cfg.SessionTTL().Seconds()),
			MaxUploadBytes: cfg.MaxUploadBytes(),
		})

		serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
		srv := &http.Server{
			Addr:              serverAddr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Démarrer le serveur dans une goroutine pour ne pas bloquer.
		go func() {
			logger.Log.Info("Démarrage du serveur", zap.String("addr", serverAddr), zap.String("proof", cfg.Proof.Path))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Log.Fatal("Échec du démarrage du serveur", zap.Error(err))
			}
		}()

		<-ctx.Done()
		logger.Log.Info("Signal d'arrêt reçu. Arrêt du serveur...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Arrêt forcé du serveur", zap.Error(err))
			return
		}
		logger.Log.Info("Serveur arrêté proprement.")
	},
}

func init() {
	cmd.RootCmd.AddCommand(RunServerCmd)
}
