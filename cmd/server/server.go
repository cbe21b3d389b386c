package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"chatlist-server/internal/config"
	"chatlist-server/internal/domain/dispatch"
	"chatlist-server/internal/domain/enhance"
	"chatlist-server/internal/domain/model"
	"chatlist-server/internal/domain/prompt"
	"chatlist-server/internal/domain/result"
	"chatlist-server/internal/domain/settings"
	"chatlist-server/internal/infrastructure/adapters"
	"chatlist-server/internal/infrastructure/credentials"
	"chatlist-server/internal/infrastructure/database"
	"chatlist-server/internal/infrastructure/logger"
	"chatlist-server/internal/infrastructure/repository/enhancementrepo"
	"chatlist-server/internal/infrastructure/repository/modelrepo"
	"chatlist-server/internal/infrastructure/repository/promptrepo"
	"chatlist-server/internal/infrastructure/repository/resultrepo"
	"chatlist-server/internal/infrastructure/repository/settingsrepo"
	"chatlist-server/internal/interfaces/httpserver"
	"chatlist-server/internal/utils/httpclients"
)

type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if cfg.AutoMigrate {
		if err := database.AutoMigrate(ctx, db, log); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
	}

	modelRepository := modelrepo.NewRepository(db)
	promptRepository := promptrepo.NewRepository(db)
	resultRepository := resultrepo.NewRepository(db)
	enhancementRepository := enhancementrepo.NewRepository(db)
	settingsRepository := settingsrepo.NewRepository(db)

	modelService := model.NewService(modelRepository)
	promptService := prompt.NewService(promptRepository)
	resultService := result.NewService(resultRepository)
	settingsService := settings.NewService(settingsRepository)

	seeder := model.NewSeeder(modelService, cfg, log)
	if created, err := seeder.Seed(ctx); err != nil {
		log.Fatal().Err(err).Msg("seed model registry")
	} else if created > 0 {
		log.Info().Int("models", created).Msg("model registry seeded")
	}

	factory := adapters.NewFactory(credentials.NewEnvResolver(), httpclients.NewClient("providers"))
	dispatcher := dispatch.NewDispatcher(factory, cfg.MaxConcurrentRequests, cfg.RequestTimeout, cfg.DispatchTimeout, log)
	batchService := dispatch.NewBatchService(dispatcher, modelService, newPersistSink(promptService, resultService), log)
	enhanceService := enhance.NewService(modelService, factory, enhancementRepository, cfg.EnhanceMaxTokens, log)

	httpServer := httpserver.New(cfg, log, httpserver.Services{
		Batch:    batchService,
		Models:   modelService,
		Prompts:  promptService,
		Results:  resultService,
		Enhance:  enhanceService,
		Settings: settingsService,
	})
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
