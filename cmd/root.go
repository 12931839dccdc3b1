package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/axellelanca/adtracker/internal/config"
	"github.com/axellelanca/adtracker/internal/logger"
	"github.com/spf13/cobra"
)

// Cfg is the configuration loaded before any command runs.
var Cfg *config.Config

// RootCmd is the base command for the CLI application.
// Subcommands (run-server, migrate, seed, stats, publish) register themselves in their own init().
var RootCmd = &cobra.Command{
	Use:          "adtracker",
	SilenceUsage: true,
	Short: "An advertisement click tracking application",
	Long: `adtracker publishes advertisement images, debits a prepaid budget on every
click-through and keeps an append-only log of the clicks.`,
}

// Execute is the main entry point for the Cobra application, called from main.go.
// Commands return their errors instead of exiting so the log buffer is always flushed.
func Execute() {
	err := RootCmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

// initConfig loads the configuration and the logger before every command.
func initConfig() {
	var err error
	Cfg, err = config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.InitLogger(&logger.Config{
		Level:      Cfg.Log.Level,
		Filename:   Cfg.Log.Filename,
		MaxSize:    Cfg.Log.MaxSize,
		MaxBackups: Cfg.Log.MaxBackups,
		MaxAge:     Cfg.Log.MaxAge,
		Compress:   Cfg.Log.Compress,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
}
