package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"portfolio-hub/internal/api"
	"portfolio-hub/internal/config"
	"portfolio-hub/internal/domain"
	apihttp "portfolio-hub/internal/http"
	"portfolio-hub/internal/notify"
	"portfolio-hub/internal/realtime"
	"portfolio-hub/internal/session"
	"portfolio-hub/internal/store"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	tokens := session.TokenStore(session.NewFileTokenStore(cfg.TokenFile))
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using file token store", zap.Error(err))
		} else {
			tokens = session.NewRedisTokenStore(redisClient)
		}
		cancel()
	}

	guard := session.NewGuard(logger, tokens)
	client := api.NewClient(cfg.BackendBaseURL, tokens, logger)
	client.OnSessionInvalid(func() {
		logger.Warn("session invalidated by backend, operator must login again")
	})

	notifier := notify.NewZapNotifier(logger)
	projects := store.New[domain.Project](logger, client, domain.KindProjects, notifier)
	skills := store.New[domain.Skill](logger, client, domain.KindSkills, notifier)

	reload := func() {
		ctxLoad, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := projects.Load(ctxLoad); err != nil {
			logger.Warn("projects load failed", zap.Error(err))
		}
		if err := skills.Load(ctxLoad); err != nil {
			logger.Warn("skills load failed", zap.Error(err))
		}
	}
	reload()

	if cfg.BackendWSURL != "" {
		channel := realtime.NewChannel(cfg.BackendWSURL, logger)
		projects.Bind(channel)
		skills.Bind(channel)
		// Tras una reconexión los eventos perdidos no se reponen: la única
		// recuperación es volver a traer la verdad base.
		channel.OnReconnect(reload)
		channel.Start(ctx)
		defer channel.Close()
	} else {
		logger.Warn("push channel not configured, lists refresh only on reload")
	}

	scheduler := cron.New(cron.WithSeconds())
	if _, err := scheduler.AddFunc(cfg.ReloadCron, reload); err != nil {
		logger.Warn("reload schedule invalid", zap.String("cron", cfg.ReloadCron), zap.Error(err))
	} else {
		scheduler.Start()
		defer scheduler.Stop()
	}

	sessionHandler := apihttp.NewSessionHandler(logger, client, tokens)
	portfolioHandler := apihttp.NewPortfolioHandler(logger, buildProfile(cfg), projects, skills)
	adminHandler := apihttp.NewAdminHandler(logger, projects, skills)
	router := apihttp.NewRouter(logger, guard, cfg.CORSOrigins, sessionHandler, portfolioHandler, adminHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("skin", cfg.Skin),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

func buildProfile(cfg *config.Config) domain.Profile {
	headline := cfg.OwnerHeadline
	if headline == "" {
		switch cfg.Skin {
		case "medical":
			headline = "Medical Representative"
		default:
			headline = "Software Developer"
		}
	}
	return domain.Profile{
		Skin:     cfg.Skin,
		Name:     cfg.OwnerName,
		Headline: headline,
		About:    cfg.OwnerAbout,
		Email:    cfg.OwnerEmail,
		Location: cfg.OwnerLocation,
	}
}
