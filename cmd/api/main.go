package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "partprice/internal/adapters/http_server"
	"partprice/internal/adapters/observability"
	redisad "partprice/internal/adapters/redis"
	"partprice/internal/adapters/search"
	"partprice/internal/app"
	"partprice/internal/domain"
	"partprice/internal/shared"
	mysqlrepo "partprice/internal/storage/mysql"
)

func main() {
	// set global logger (console in dev, JSON otherwise) before config warnings
	log.Logger = observability.NewLogger(os.Getenv("APP_ENV"))
	cfg := shared.Load()

	observability.Serve(cfg.MetricsAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db (optional): nil repo turns persistence into a no-op
	var repo domain.PartRepository
	if cfg.MySQLDSN == "" {
		log.Warn().Msg("MYSQL_DSN is empty, results will not be persisted")
	} else {
		dsn, err := mysqlrepo.NormalizeDSN(cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid MYSQL_DSN")
		}
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		repo = mysqlrepo.New(db)
	}

	// queue (optional): without it tasks run in-process
	var queue domain.TaskQueue
	if cfg.RedisAddr != "" {
		q := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.RedisQueueKey)
		defer q.Close()
		if err := q.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, tasks will run in-process until it recovers")
		} else if n, err := q.Len(ctx); err == nil && n > 0 {
			log.Info().Int64("backlog", n).Str("key", cfg.RedisQueueKey).Msg("resuming queued enrichment tasks")
		}
		queue = q
	}

	// deps
	cmp := app.NewComparisonService(search.New(cfg.SearchBase, cfg.SearchTimeout))
	enrich := app.NewEnrichmentService(cmp, repo)
	disp := app.NewDispatcher(enrich, queue, cfg.TaskTimeout)
	q := app.NewQueryService(repo)

	consumed := make(chan struct{})
	go func() {
		defer close(consumed)
		if err := disp.Consume(ctx, cfg.EnrichWorkers); err != nil {
			log.Error().Err(err).Msg("queue consumer stopped")
		}
	}()

	// http
	srv := server.New(cfg.APIRPS)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{D: disp, Q: q})

	log.Info().
		Str("addr", cfg.HTTPAddr).
		Bool("persistence", repo != nil).
		Bool("queue", queue != nil).
		Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}

	// drain background work before exiting
	<-consumed
	disp.Wait()
	log.Info().Msg("API stopped")
}
