package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pawcompare/backend/config"
	httpDelivery "github.com/pawcompare/backend/internal/delivery/http"
	"github.com/pawcompare/backend/internal/infrastructure/cache"
	"github.com/pawcompare/backend/internal/infrastructure/mongodb"
	"github.com/pawcompare/backend/internal/pricing"
	"github.com/pawcompare/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := newLogger(cfg)
	log.WithFields(logrus.Fields{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
	}).Info("starting pawcompare backend")

	client, err := mongodb.Connect(context.Background(), cfg.Mongo.URI, cfg.Mongo.Timeout)
	if err != nil {
		log.Fatalf("Failed to connect to mongodb: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.WithError(err).Warn("mongodb disconnect failed")
		}
	}()

	db := client.Database(cfg.Mongo.Database)
	products := mongodb.NewProductRepository(db)

	matcher := pricing.NewMatcher(pricing.MatcherConfig{
		SimilarityThreshold: cfg.Engine.SimilarityThreshold,
	})
	grouper := pricing.NewGrouper(matcher)

	comparisons := usecase.NewComparisonService(products, grouper)

	memoryCache := cache.NewMemoryCache()
	handler := httpDelivery.NewHandler(comparisons, memoryCache, cfg.Cache.TTL, log)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.WithField("addr", addr).Info("server listening")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	if cfg.Server.Environment == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}
