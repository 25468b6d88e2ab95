package main

import (
	"log"

	"github.com/mygreenscore/greenscore/internal/assessment"
	"github.com/mygreenscore/greenscore/internal/auth"
	"github.com/mygreenscore/greenscore/internal/backend"
	"github.com/mygreenscore/greenscore/internal/config"
	"github.com/mygreenscore/greenscore/internal/db"
	"github.com/mygreenscore/greenscore/internal/logging"
	"github.com/mygreenscore/greenscore/internal/store"
	"github.com/mygreenscore/greenscore/internal/web"
	"github.com/mygreenscore/greenscore/internal/web/templates"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	sessions := store.NewSessionStore(database)
	signer := auth.NewSessionSigner(cfg.SessionSecret, cfg.SessionTTL)

	demoUser := ""
	if cfg.DemoMode {
		demoUser = cfg.DemoUserID
		logger.Info("demo mode enabled", "user_id", demoUser)
	}
	client := backend.New(backend.Config{
		BaseURL:  cfg.APIBaseURL,
		Timeout:  cfg.APITimeout,
		Logger:   logger,
		DemoUser: demoUser,
	})

	server := web.NewServer(client, sessions, signer, assessment.DefaultCatalog(), templates.FS, logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}
