// Package main is the entry point for the CodeBits API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Devesh36/CodeBits/internal/auth"
	"github.com/Devesh36/CodeBits/internal/config"
	"github.com/Devesh36/CodeBits/internal/data"
	"github.com/Devesh36/CodeBits/internal/enrichment"
	"github.com/Devesh36/CodeBits/internal/http/handler"
	"github.com/Devesh36/CodeBits/internal/http/middleware"
	"github.com/Devesh36/CodeBits/internal/http/router"
	"github.com/Devesh36/CodeBits/internal/repository"
	"github.com/Devesh36/CodeBits/internal/repository/cached"
	"github.com/Devesh36/CodeBits/internal/repository/fake"
	"github.com/Devesh36/CodeBits/internal/repository/postgres"
	"github.com/Devesh36/CodeBits/internal/repository/sqlite"
	"github.com/Devesh36/CodeBits/internal/service"
	"github.com/Devesh36/CodeBits/pkg/logger"
)

// stores bundles the repositories chosen by STORE_DRIVER.
type stores struct {
	snippets repository.SnippetRepository
	stars    repository.StarRepository
	profiles repository.ProfileRepository
	checks   []handler.Check
	close    func()
}

func main() {
	logger.InitLogging()
	config.InitConf()
	cfg := config.Conf

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer st.close()

	rdb := data.NewRedisClient(cfg)
	if rdb != nil {
		defer rdb.Close()
		cachedSnippets := cached.NewSnippetRepository(st.snippets, rdb, cfg.CacheTTL)
		st.snippets = cachedSnippets
		st.stars = cached.NewStarRepository(st.stars, cachedSnippets)
		logger.Info(ctx, "redis cache enabled at %s (ttl %s)", cfg.RedisAddr, cfg.CacheTTL)
	}

	enricher, err := newEnricher(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to configure enrichment: %v", err)
	}

	var tokens middleware.TokenValidator
	if cfg.JWTSecret != "" {
		ts, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer)
		if err != nil {
			logger.Fatal(ctx, "invalid JWT configuration: %v", err)
		}
		tokens = ts
	} else {
		logger.Warn(ctx, "JWT_SECRET not set, all requests are anonymous")
	}

	svc := service.NewServiceWithOptions(st.snippets, st.stars, enricher, service.RealClock{},
		service.WithEnrichmentTimeout(cfg.EnrichmentTimeout),
		service.WithPublicBaseURL(cfg.PublicBaseURL),
	)
	checks := append(st.checks, handler.RedisCheck(rdb))
	engine := router.NewRouter(
		handler.NewHandler(svc),
		handler.NewProfileHandler(service.NewProfileService(st.profiles)),
		handler.NewHealthHandler(checks...),
		tokens,
	)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: engine}
	go func() {
		logger.Info(ctx, "listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "graceful shutdown failed: %v", err)
	}
}

func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := data.NewPostgresPool(ctx, cfg)
		if err != nil {
			return stores{}, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return stores{}, err
		}
		return postgresStores(pool), nil
	case config.StoreSQLite:
		db, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return stores{}, err
		}
		return stores{
			snippets: db, stars: db, profiles: db,
			checks: []handler.Check{{Name: "sqlite", Pinger: db}},
			close:  func() { _ = db.Close() },
		}, nil
	case config.StoreMemory:
		logger.Warn(ctx, "using in-memory store, data is lost on restart")
		mem := fake.NewStore()
		return stores{snippets: mem, stars: mem, profiles: mem, close: func() {}}, nil
	default:
		return stores{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func postgresStores(pool *pgxpool.Pool) stores {
	return stores{
		snippets: postgres.NewSnippetRepository(pool),
		stars:    postgres.NewStarRepository(pool),
		profiles: postgres.NewProfileRepository(pool),
		checks:   []handler.Check{handler.PostgresCheck(pool)},
		close:    pool.Close,
	}
}

func newEnricher(ctx context.Context, cfg config.Config) (enrichment.Enricher, error) {
	var next enrichment.Enricher
	switch {
	case cfg.GeminiAPIKey != "":
		g, err := enrichment.NewGeminiEnricher(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		next = g
		logger.Info(ctx, "enrichment via %s", g.Name())
	case cfg.EnrichmentURL != "":
		next = enrichment.NewHTTPEnricher(cfg.EnrichmentURL, cfg.EnrichmentAPIKey, cfg.EnrichmentTimeout)
		logger.Info(ctx, "enrichment via %s", cfg.EnrichmentURL)
	default:
		logger.Warn(ctx, "no enrichment backend configured, snippets are stored without tags or summary")
		return enrichment.Disabled{}, nil
	}
	return enrichment.NewCachedEnricher(next, cfg.EnrichmentCacheSize)
}
