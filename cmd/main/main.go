package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"quote-service/internal/catalog"
	"quote-service/internal/config"
	"quote-service/internal/extract"
	"quote-service/internal/metrics"
	quoteHnd "quote-service/internal/quote/handler"
	"quote-service/internal/quote/model"
	"quote-service/internal/quote/service"
	"quote-service/internal/quote/session"
	serverhttp "quote-service/server/http"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	dotenvErr := config.LoadDotEnv(envFile)

	cfg := config.Load()
	logger := config.SetupLogger(cfg)
	metrics.Register()
	if dotenvErr != nil {
		logger.Warn().Err(dotenvErr).Str("file", envFile).Msg("env file ignored")
	}

	vocab := service.DefaultVocabulary()
	if cfg.VocabularyFile != "" {
		v, err := service.LoadVocabulary(cfg.VocabularyFile)
		if err != nil {
			logger.Fatal().Err(err).Str("file", cfg.VocabularyFile).Msg("vocabulary")
		}
		vocab = v
	}
	policy, err := service.PolicyByName(cfg.ScoringPolicy)
	if err != nil {
		logger.Fatal().Err(err).Msg("scoring policy")
	}
	ranker := service.NewRanker(service.NewScorer(vocab, policy))
	ranker.ParallelThreshold = cfg.ParallelThreshold

	store := catalog.NewStore(initialCatalog(cfg, logger))

	ex, rdb := buildExtractor(cfg, logger)
	if rdb != nil {
		defer rdb.Close()
	}

	sessions := session.NewStore(cfg.SessionTTL)
	deps := quoteHnd.Deps{
		Engine:   service.NewEngine(store, ranker, ex, logger),
		Catalog:  store,
		Sessions: sessions,
		Logger:   logger,
	}
	r := serverhttp.NewRouter(cfg, deps, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sweep(ctx, sessions, cfg.SessionTTL, logger)
	if cfg.CatalogFile != "" && cfg.CatalogWatch {
		go func() {
			if err := catalog.Watch(ctx, cfg.CatalogFile, cfg.CatalogHeaderRow, catalog.Mapping{}, store, logger); err != nil {
				logger.Warn().Err(err).Msg("catalog watch disabled")
			}
		}()
	}

	srv := &http.Server{Addr: cfg.Addr(), Handler: r, ReadHeaderTimeout: 10 * time.Second}
	logger.Info().
		Str("addr", cfg.Addr()).
		Str("policy", policy.Name).
		Int("catalog", store.Snapshot().Len()).
		Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	<-ctx.Done()
	logger.Info().Msg("server shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(sctx)
	logger.Info().Msg("bye")
}

func initialCatalog(cfg config.Config, logger zerolog.Logger) []model.CatalogItem {
	var (
		items []model.CatalogItem
		err   error
		src   string
	)
	switch {
	case cfg.CatalogFile != "":
		src = cfg.CatalogFile
		items, err = catalog.LoadFile(cfg.CatalogFile, cfg.CatalogHeaderRow, catalog.Mapping{})
	case cfg.CatalogURL != "":
		src = cfg.CatalogURL
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		items, err = catalog.Fetch(ctx, http.DefaultClient, cfg.CatalogURL, cfg.CatalogHeaderRow, catalog.Mapping{})
		cancel()
	default:
		logger.Warn().Msg("no catalog configured, upload one via POST /catalog")
		return nil
	}
	if err != nil {
		metrics.IncCatalogLoad("error")
		logger.Error().Err(err).Str("source", src).Msg("catalog load failed, starting empty")
		return nil
	}
	metrics.IncCatalogLoad("ok")
	logger.Info().Str("source", src).Int("items", len(items)).Msg("catalog loaded")
	return items
}

// buildExtractor picks the LLM extractor when a key is set, rules otherwise,
// and memoizes the result in Redis when configured.
func buildExtractor(cfg config.Config, logger zerolog.Logger) (extract.Extractor, *redis.Client) {
	var ex extract.Extractor = extract.Rules{}
	if cfg.OpenAIKey != "" {
		ex = extract.NewOpenAI(extract.OpenAIOptions{
			APIKey:  cfg.OpenAIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
			Timeout: cfg.ExtractTimeout,
			RPS:     cfg.ExtractRPS,
		})
		logger.Info().Str("model", cfg.OpenAIModel).Msg("llm extraction enabled")
	}
	if cfg.RedisAddr == "" {
		return ex, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, extraction cache disabled")
		_ = rdb.Close()
		return ex, nil
	}
	return extract.NewCached(ex, rdb, cfg.ExtractCacheTTL, logger), rdb
}

func sweep(ctx context.Context, st *session.Store, ttl time.Duration, logger zerolog.Logger) {
	every := ttl / 4
	if every < time.Minute {
		every = time.Minute
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := st.Sweep(); n > 0 {
				logger.Debug().Int("expired", n).Msg("sessions swept")
			}
		}
	}
}
