package cmd

import (
	"net/http"
	"time"

	"github.com/dmaguire/streaks/internal/config"
	"github.com/dmaguire/streaks/internal/logger"
	"github.com/dmaguire/streaks/internal/remind"
	"github.com/dmaguire/streaks/internal/server"
	"github.com/dmaguire/streaks/internal/storage"
	"github.com/dmaguire/streaks/internal/storage/bolt"
	"github.com/dmaguire/streaks/internal/storage/sqlite"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return startServer()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func openStore(cfg *config.Config) (storage.Store, error) {
	if cfg.StoreDriver == "sqlite" {
		return sqlite.Open(cfg.DBPath)
	}
	return bolt.Open(cfg.DBPath)
}

func startServer() error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	srv, err := server.New(store, cfg)
	if err != nil {
		return err
	}

	if cfg.Notify.ResendAPIKey != "" && cfg.Notify.ToAddress != "" {
		notifier := &remind.ResendNotifier{
			ApiKey: cfg.Notify.ResendAPIKey,
			From:   cfg.Notify.FromAddress,
			Email:  cfg.Notify.ToAddress,
		}
		// Reminders address the single configured recipient, so the
		// service runs against the anonymous user's data.
		reminders := remind.NewService(store, notifier, "anonymous", time.Local)
		if err := reminders.Start(); err != nil {
			return err
		}
		defer reminders.Stop()
	}

	logger.Info("Starting server", "addr", cfg.ListenAddr, "store", cfg.StoreDriver)
	return http.ListenAndServe(cfg.ListenAddr, srv.Router())
}
