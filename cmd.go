package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vladimiradmaev/sweet-friend/internal/database"
	"github.com/vladimiradmaev/sweet-friend/internal/logger"
)

func SetupCommands() *cobra.Command {
	var syncInterval time.Duration

	// root command; running it without a subcommand serves the web app
	rootCmd := &cobra.Command{
		Use:          "sweet-friend",
		Short:        "Diabetes logbook with glucose charts and an AI assistant",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), syncInterval)
		},
	}
	rootCmd.Flags().DurationVar(&syncInterval, "sync-interval", 5*time.Minute, "how often to pull Dexcom readings, 0 disables")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), syncInterval)
		},
	}
	serveCmd.Flags().DurationVar(&syncInterval, "sync-interval", 5*time.Minute, "how often to pull Dexcom readings, 0 disables")

	// command for bringing the schema up to date without starting the server
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadAppWith(database.Connect)
			if err != nil {
				return err
			}
			defer a.Close()

			applied, err := database.Migrate(a.db)
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migrations\n", len(applied))
			for _, id := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", id)
			}
			return err
		},
	}

	var window time.Duration
	// command for a one-off Dexcom import, e.g. from cron
	syncCmd := &cobra.Command{
		Use:   "sync-glucose",
		Short: "Import recent Dexcom readings for every linked account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if a.dexcom == nil {
				return errors.New("DEXCOM_CLIENT_ID and DEXCOM_CLIENT_SECRET are not set")
			}
			n, err := a.dexcom.SyncAll(cmd.Context(), window)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d readings\n", n)
			return err
		},
	}
	syncCmd.Flags().DurationVar(&window, "window", 24*time.Hour, "how far back to fetch")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(syncCmd)

	return rootCmd
}

func serve(parent context.Context, syncInterval time.Duration) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.connectServices(ctx); err != nil {
		return err
	}

	srv := a.server()
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	if a.dexcom != nil && syncInterval > 0 {
		go a.syncLoop(ctx, syncInterval)
	}

	logger.Info("Sweet Friend is running", "port", a.cfg.Port)
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	return srv.Shutdown(context.Background())
}

// syncLoop pulls Dexcom readings for every linked account until ctx ends
func (a *App) syncLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := a.dexcom.SyncAll(ctx, time.Hour); err != nil {
				logger.Warn("Background Dexcom sync incomplete", "error", err)
			}
		}
	}
}
