package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/marcoyuen/culturemap/internal/config"
	"github.com/marcoyuen/culturemap/internal/database"
	"github.com/marcoyuen/culturemap/internal/handler"
	"github.com/marcoyuen/culturemap/internal/importer"
	"github.com/marcoyuen/culturemap/internal/queue"
	"github.com/marcoyuen/culturemap/internal/repository"
	"github.com/marcoyuen/culturemap/internal/router"
	queuepublisher "github.com/marcoyuen/culturemap/internal/service"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.Env == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.WithError(err).Fatal("schema setup failed")
	}

	locations := repository.NewLocationRepo(db)
	events := repository.NewEventRepo(db)
	users := repository.NewUserRepo(db)
	likes := repository.NewLikeRepo(db)

	// The feed import runs to completion before the listener opens so the
	// first request always sees a reconciled catalog.
	store := repository.NewImportStore(locations, events, users, cfg.BcryptCost)
	summary, err := importer.New(cfg, store, log).Run(ctx)
	if err != nil {
		log.WithError(err).Fatal("startup import failed")
	}

	if cfg.AMQPURL != "" {
		ev := queue.ImportCompletedEvent{
			RunID:      summary.RunID,
			Locations:  summary.Locations,
			Events:     summary.Events,
			DurationMS: summary.Duration.Milliseconds(),
			FinishedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := queuepublisher.PublishImportCompleted(ctx, cfg.AMQPURL, ev); err != nil {
			log.WithError(err).Warn("import summary publish failed")
		}
		go func() {
			if err := queue.StartImportConsumer(cfg.AMQPURL); err != nil {
				log.WithError(err).Error("import consumer stopped")
			}
		}()
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable, cache and rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, cfg, router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, users),
		Locations: handler.NewLocationHandler(locations, events, likes),
		Events:    handler.NewEventHandler(events, locations),
		Likes:     handler.NewLikeHandler(locations, likes),
		Admin:     handler.NewAdminHandler(cfg, users, locations, events),
	}, rdb)

	addr := ":" + cfg.Port
	log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
	if err := e.Start(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
