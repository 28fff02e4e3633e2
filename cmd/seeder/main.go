package main

import (
	"context"
	"database/sql"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/AyoubAchour/almindhar-experience/internal/adapters/catalogfeed"
	"github.com/AyoubAchour/almindhar-experience/internal/adapters/observability"
	redisad "github.com/AyoubAchour/almindhar-experience/internal/adapters/redis"
	"github.com/AyoubAchour/almindhar-experience/internal/app"
	"github.com/AyoubAchour/almindhar-experience/internal/domain"
	"github.com/AyoubAchour/almindhar-experience/internal/shared"
	mysqlrepo "github.com/AyoubAchour/almindhar-experience/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel, "seeder")

	var feed domain.CatalogFeed
	switch {
	case cfg.SeedFile != "":
		f, err := catalogfeed.LoadFile(cfg.SeedFile)
		if err != nil {
			log.Fatal().Err(err).Msg("load seed file")
		}
		feed = f
		log.Info().Str("file", cfg.SeedFile).Int("workers", cfg.SeedWorkers).Msg("seeder starting")
	default:
		c, err := catalogfeed.New(cfg.FeedBase, cfg.FeedKey, cfg.FeedRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("set CATALOG_FEED_URL or SEED_FILE")
		}
		feed = c
		log.Info().Str("base", cfg.FeedBase).Int("workers", cfg.SeedWorkers).Msg("seeder starting")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	imp := app.NewImportService(feed, repo, repo, app.NewQueryService(repo, cache, cfg.CacheTTL))

	ids, err := imp.FeedIDs(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("list feed entries")
	}
	log.Info().Int("entries", len(ids)).Msg("feed listed")

	sem := semaphore.NewWeighted(int64(max(cfg.SeedWorkers, 1)))
	var wg sync.WaitGroup
	var failed atomic.Int64

	for _, id := range ids {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("seeding interrupted")
			break
		}

		wg.Add(1)
		go func(feedID string) {
			defer wg.Done()
			defer sem.Release(1)

			if err := imp.ImportExperience(ctx, feedID); err != nil {
				failed.Add(1)
				log.Warn().Str("feed_id", feedID).Err(err).Msg("import failed")
				return
			}
			log.Debug().Str("feed_id", feedID).Msg("import ok")
		}(id)
	}

	wg.Wait()
	log.Info().Int("entries", len(ids)).Int64("failed", failed.Load()).Msg("seeding completed")
}
