package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/vladimiradmaev/sweet-friend/internal/config"
	"github.com/vladimiradmaev/sweet-friend/internal/database"
	"github.com/vladimiradmaev/sweet-friend/internal/logger"
	"github.com/vladimiradmaev/sweet-friend/internal/repository"
	"github.com/vladimiradmaev/sweet-friend/internal/services"
	"github.com/vladimiradmaev/sweet-friend/internal/state"
	"github.com/vladimiradmaev/sweet-friend/internal/storage"
	"github.com/vladimiradmaev/sweet-friend/internal/web"
	"github.com/vladimiradmaev/sweet-friend/internal/web/handlers"
	"gorm.io/gorm"
)

// App owns the long-lived resources shared by the commands
type App struct {
	cfg    *config.Config
	db     *gorm.DB
	repos  *repository.Repositories
	store  state.Store
	ai     *services.AIService
	dexcom *services.DexcomService
}

// loadApp reads the configuration, starts logging and opens a migrated database
func loadApp() (*App, error) {
	return loadAppWith(database.Open)
}

// loadAppWith is loadApp with the database opener swapped, e.g. database.Connect
// when the caller runs the migrations itself
func loadAppWith(open func(config.DBConfig) (*gorm.DB, error)) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := open(cfg.DB)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, db: db, repos: repository.New(db)}
	if cfg.Dexcom.Enabled() {
		a.dexcom = services.NewDexcomService(cfg.Dexcom.ClientID, cfg.Dexcom.ClientSecret,
			cfg.Dexcom.RedirectURL, cfg.Dexcom.BaseURL, a.repos.DexcomTokens, a.repos.Glucose)
	}
	return a, nil
}

// connectServices creates the AI clients and the state store needed by the web server
func (a *App) connectServices(ctx context.Context) error {
	ai, err := services.NewAIService(ctx, a.cfg.AIProvider, a.cfg.GeminiAPIKey, a.cfg.OpenAIAPIKey)
	if err != nil {
		return err
	}
	a.ai = ai
	logger.Info("AI service initialized", "provider", ai.Provider())

	if a.cfg.Redis.Enabled() {
		rm, err := state.NewRedisManager(a.cfg.Redis.Host+":"+a.cfg.Redis.Port, a.cfg.Redis.Password)
		if err != nil {
			return err
		}
		a.store = rm
		logger.Info("Using Redis state manager", "host", a.cfg.Redis.Host)
	} else {
		a.store = state.NewManager()
		logger.Info("Using in-memory state manager")
	}
	return nil
}

// server builds the HTTP server over the services
func (a *App) server() *web.Server {
	loc := a.cfg.Location()
	deps := handlers.Dependencies{
		Users:    services.NewUserService(a.repos.Users),
		Chat:     services.NewChatService(a.ai, a.store),
		Food:     services.NewFoodAnalysisService(a.ai, storage.NewImageStore(a.cfg.UploadDir), a.store, a.cfg.MaxUploadSize),
		Logs:     services.NewLogService(a.repos.LogEntries),
		Glucose:  services.NewGlucoseService(a.repos.Glucose),
		Advice:   services.NewAdviceService(a.ai, a.repos.Glucose, a.repos.LogEntries, loc),
		State:    a.store,
		Location: loc,
	}
	if a.dexcom != nil {
		deps.Dexcom = a.dexcom
	}
	return web.New(web.Options{
		Port:          a.cfg.Port,
		SessionSecret: a.cfg.SessionSecret,
		MaxUploadSize: a.cfg.MaxUploadSize,
		SecureCookies: a.cfg.SecureCookies(),
	}, deps)
}

// Close releases every resource that was opened
func (a *App) Close() error {
	var errs []error
	if a.ai != nil {
		errs = append(errs, a.ai.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	errs = append(errs, logger.Close())
	return errors.Join(errs...)
}
