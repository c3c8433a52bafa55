package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/Bugitoy/Study-Talk-sub000/internal/config"
	"github.com/Bugitoy/Study-Talk-sub000/internal/db"
	"github.com/Bugitoy/Study-Talk-sub000/internal/handler"
	"github.com/Bugitoy/Study-Talk-sub000/internal/middleware"
	"github.com/Bugitoy/Study-Talk-sub000/internal/repository"
	"github.com/Bugitoy/Study-Talk-sub000/internal/router"
	"github.com/Bugitoy/Study-Talk-sub000/internal/service"
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "studytalk-trust")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	handler.InitMetrics(pool)
	cache.SetCounters(handler.Metrics.CacheHits, handler.Metrics.CacheMisses)

	// Repositories
	voteRepo := repository.NewVoteRepo(pool)
	confessionRepo := repository.NewConfessionRepo(pool)
	userRepo := repository.NewUserRepo(pool)
	reputationRepo := repository.NewReputationRepo(pool)
	reportRepo := repository.NewReportRepo(pool)

	// Services
	rankSvc := service.NewRankService()
	scorerSvc := service.NewScorerService()
	botRiskSvc := service.NewBotRiskService()
	reputationSvc := service.NewReputationService(userRepo, reputationRepo, reportRepo, scorerSvc, botRiskSvc, cache, cfg.DeviceSalt)
	reputationSvc.SetFlaggedCounter(handler.Metrics.FlaggedAccounts)
	voteSvc := service.NewVoteService(voteRepo, userRepo)
	confessionSvc := service.NewConfessionService(confessionRepo, userRepo, rankSvc, cache)

	// Background recompute worker (hot scores + reputations)
	worker := service.NewRecalcWorker(pool, confessionRepo, userRepo, rankSvc, reputationSvc, cache,
		cfg.RecalcBatchWindow, cfg.BackfillInterval)
	worker.SetDurationObserver(handler.Metrics.RecalcDuration)
	go worker.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      "Study-Talk Trust API",
		ServerHeader: "StudyTalk",
	})

	router.Setup(app, &router.Handlers{
		Confession: handler.NewConfessionHandler(confessionSvc),
		Vote:       handler.NewVoteHandler(voteSvc),
		User:       handler.NewUserHandler(reputationSvc),
		Health:     handler.NewHealthHandler(pool, cache.Client(), worker),
	}, cfg.CORSOrigins)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		_ = app.Shutdown()
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("trust & ranking service starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
