package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/pawcompare/backend/config"
	"github.com/pawcompare/backend/internal/domain"
	"github.com/pawcompare/backend/internal/infrastructure/mongodb"
	"github.com/pawcompare/backend/internal/infrastructure/search"
	"github.com/pawcompare/backend/internal/pricing"
	"github.com/pawcompare/backend/internal/usecase"
)

func main() {
	job := flag.String("job", "all", "which job to run: groups, unit-prices or all")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logrus.New()
	if cfg.Server.Environment == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Timeout)
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
	groups := mongodb.NewGroupRepository(db)

	if err := groups.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Warn("group index setup failed")
	}

	var indexer domain.GroupIndexer
	if cfg.Search.Enabled {
		meili := search.NewIndexer(cfg.Search.Host, cfg.Search.APIKey, cfg.Search.IndexName)
		if err := meili.EnsureIndex(ctx); err != nil {
			log.WithError(err).Warn("search index setup failed, indexing disabled for this run")
		} else {
			indexer = meili
		}
	}

	matcher := pricing.NewMatcher(pricing.MatcherConfig{
		SimilarityThreshold: cfg.Engine.SimilarityThreshold,
	})
	grouper := pricing.NewGrouper(matcher)
	syncCfg := usecase.GroupSyncConfig{
		BatchSize:  cfg.Sync.BatchSize,
		BatchPause: cfg.Sync.BatchPause,
	}

	switch *job {
	case "unit-prices":
		runUnitPrices(ctx, log, products, syncCfg)
	case "groups":
		runGroups(ctx, log, products, groups, indexer, grouper, syncCfg)
	case "all":
		runUnitPrices(ctx, log, products, syncCfg)
		runGroups(ctx, log, products, groups, indexer, grouper, syncCfg)
	default:
		log.Fatalf("Unknown job %q, want groups, unit-prices or all", *job)
	}
}

func runUnitPrices(ctx context.Context, log *logrus.Logger, products domain.ProductRepository, cfg usecase.GroupSyncConfig) {
	svc := usecase.NewUnitPriceSyncService(products, cfg, log)
	report, err := svc.Run(ctx)
	if err != nil {
		log.Fatalf("Unit price sync failed: %v", err)
	}
	log.WithFields(logrus.Fields{
		"processed": report.Processed,
		"updated":   report.Updated,
		"skipped":   report.Skipped,
		"failed":    report.Failed,
	}).Info("unit price sync done")
}

func runGroups(ctx context.Context, log *logrus.Logger, products domain.ProductRepository, groups domain.GroupRepository, indexer domain.GroupIndexer, grouper *pricing.Grouper, cfg usecase.GroupSyncConfig) {
	svc := usecase.NewGroupSyncService(products, groups, indexer, grouper, cfg, log)
	report, err := svc.Run(ctx)
	if err != nil {
		log.Fatalf("Group sync failed: %v", err)
	}
	log.WithFields(logrus.Fields{
		"groups":   report.GroupCount,
		"upserted": report.Upserted,
		"failed":   report.Failed,
		"deleted":  report.StaleDeleted,
		"indexed":  report.Indexed,
	}).Info("group sync done")
}
