// main.go
package main

import (
	"context"
	"log"
	"time"

	"material-market/cmd"
	"material-market/internal/data/repository"
	"material-market/internal/janitor"
	"material-market/internal/storage"
	"material-market/internal/wire"
	"material-market/pkg/database"
	"material-market/pkg/token"
	"material-market/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Schema first, then the pool
	if config.Database.Migrate {
		if err := database.RunMigrations(config.Database, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)

	store, err := storage.NewLocal(config.Upload.Dir)
	if err != nil {
		logger.Fatal("Failed to prepare upload storage", zap.Error(err))
	}

	tokens := token.NewIssuer(config.JWT.Secret, time.Duration(config.JWT.ExpiryHours)*time.Hour)
	logger.Info("Token issuer ready", zap.Duration("expiry", tokens.Expiry()))

	// Wire all dependencies
	app := wire.Wiring(repos, config, logger, tokens, store, db)

	if config.Admin.Email != "" && config.Admin.Password != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := app.Service.Auth.EnsureAdmin(ctx, config.Admin.Name, config.Admin.Email, config.Admin.Password)
		cancel()
		if err != nil {
			logger.Fatal("Failed to seed admin account", zap.Error(err))
		}
	}

	sweeper := janitor.New(store, repos.Listing, config.Upload.URLPrefix, config.Janitor.Grace, logger)
	if err := sweeper.Start(config.Janitor.Schedule); err != nil {
		logger.Fatal("Failed to start janitor", zap.Error(err))
	}

	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	sweeper.Stop(ctx)
}
