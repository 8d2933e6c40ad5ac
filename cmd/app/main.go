package main

import (
	"context"
	"embed"

	"marcador/internal/application"
	"marcador/internal/delivery/api"
	"marcador/internal/delivery/discord"
	"marcador/internal/delivery/telegram"
	"marcador/internal/delivery/ws"
	"marcador/internal/repository"
	"marcador/pkg/config"
	"marcador/pkg/logger"
	service "marcador/pkg/services"
	"marcador/pkg/sheets"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

func main() {
	_ = godotenv.Load()

	cfg := config.Config{}
	if err := config.ReadEnvConfig(&cfg); err != nil {
		panic(err)
	}

	log := logger.NewLogger(&logger.Config{Level: cfg.LogLevel})

	db, err := repository.NewPostgresDB(&cfg.Repo)
	if err != nil {
		log.Error("failed to init db: %s", err.Error())
		return
	}
	defer db.Close()

	log.Info("Running migrations...")
	if _, err := repository.RunMigrations(db, migrationFS, "migrations", log.With("component", "migrate")); err != nil {
		log.Error("failed to run migrations: %s", err.Error())
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos := repository.NewRepository(db)
	names := repository.NewTeamCache(repos.Team)
	if err := names.LoadAll(ctx); err != nil {
		log.Warn("failed to preload team names: %s", err.Error())
	}

	manager := service.NewManager(log.With("component", "services"))

	hub := ws.NewHub(log.With("component", "ws"), cfg.HTTP.AllowedOrigins)
	metrics := api.NewMetrics()
	notifiers := application.Notifiers{hub, metrics}
	manager.AddService(hub)

	if cfg.Discord.Enabled() {
		announcer, err := discord.NewAnnouncer(cfg.Discord, names, log.With("component", "discord"))
		if err != nil {
			log.Error("failed to init discord announcer: %s", err.Error())
			return
		}
		notifiers = append(notifiers, announcer)
		manager.AddService(announcer)
	}

	if cfg.Telegram.Enabled() {
		announcer, err := telegram.NewAnnouncer(cfg.Telegram, names, log.With("component", "telegram"))
		if err != nil {
			log.Error("failed to init telegram announcer: %s", err.Error())
			return
		}
		notifiers = append(notifiers, announcer)
		manager.AddService(announcer)
	}

	deps := application.Deps{
		Repos:    repos,
		Names:    names,
		Notifier: notifiers,
		Logger:   log,
	}
	if cfg.Google.Enabled() {
		client, err := sheets.NewGoogleSheetsClient(ctx, cfg.Google.CredentialsFile)
		if err != nil {
			log.Error("failed to init google sheets client: %s", err.Error())
			return
		}
		deps.Sheets = application.NewSheetsServiceImpl(client, cfg.Google.SpreadsheetID, cfg.Google.OwnerEmail)
	}

	services := application.NewService(deps)

	handler := api.NewHandler(api.HandlerDeps{
		Services:       services,
		DB:             repos,
		Live:           hub,
		Metrics:        metrics,
		Logger:         log.With("component", "http"),
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	})
	manager.AddService(api.NewServer(cfg.HTTP, handler.Routes(), log.With("component", "http")))

	if err := manager.Run(ctx); err != nil {
		log.Error("service manager stopped with error: %s", err.Error())
		return
	}
	log.Info("Marcador stopped")
}
