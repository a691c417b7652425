package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	orchestratorx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/agents/orchestrator"
	"github.com/tanpawarit/Chative-Bearing-Assistant/agent/agents/specialist"
	cachex "github.com/tanpawarit/Chative-Bearing-Assistant/agent/cache"
	catalogx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/catalog"
	contractx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/contract"
	feedbackx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/feedback"
	llmx "github.com/tanpawarit/Chative-Bearing-Assistant/agent/llm"
	statex "github.com/tanpawarit/Chative-Bearing-Assistant/agent/state"
	"github.com/tanpawarit/Chative-Bearing-Assistant/api"
	configx "github.com/tanpawarit/Chative-Bearing-Assistant/pkg/config"
	_ "github.com/tanpawarit/Chative-Bearing-Assistant/pkg/logger/autoload"
	qstashx "github.com/tanpawarit/Chative-Bearing-Assistant/pkg/qstash"
)

type AppConfig struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	CatalogDir      string        `envconfig:"CATALOG_DIR" default:"./data/bearings"`
	CacheBackend    string        `envconfig:"CACHE_BACKEND" default:"memory"`
	FeedbackSink    string        `envconfig:"FEEDBACK_SINK" default:"memory"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appCfg := configx.MustNew[AppConfig]("")

	cache, err := newCache(ctx, appCfg.CacheBackend)
	if err != nil {
		log.Fatal().Err(err).Str("backend", appCfg.CacheBackend).Msg("failed to initialize cache")
	}

	sink, closeSink, err := newFeedbackSink(ctx, appCfg.FeedbackSink)
	if err != nil {
		log.Fatal().Err(err).Str("sink", appCfg.FeedbackSink).Msg("failed to initialize feedback sink")
	}
	defer closeSink()

	catalog := catalogx.Load(appCfg.CatalogDir)

	llmCfg := configx.MustNew[llmx.Config]("LLM")
	registry, err := specialist.NewRegistry(ctx, *llmCfg, specialist.Dependencies{
		Catalog: catalog,
		Cache:   cache,
		Sink:    sink,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build agents")
	}

	router, err := orchestratorx.NewRouter(ctx, registry, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	store, err := statex.NewCacheStore(cache)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build session store")
	}

	orchestrator, err := orchestratorx.New(store, router)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build orchestrator")
	}

	srv := &http.Server{
		Addr:              appCfg.HTTPAddr,
		Handler:           api.NewRouter(orchestrator, log.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", appCfg.HTTPAddr).
			Int("parts", catalog.Len()).
			Str("cache", appCfg.CacheBackend).
			Str("feedback_sink", appCfg.FeedbackSink).
			Msg("bearing assistant listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appCfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
	log.Info().Msg("bearing assistant stopped")
}

func newCache(ctx context.Context, backend string) (cachex.Cache, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "memory":
		return cachex.NewMemoryCache(time.Hour, 10*time.Minute), nil
	case "redis":
		cfg := configx.MustNew[cachex.RedisConfig]("REDIS")
		c, err := cachex.NewRedisCache(cachex.NewRedisClient(*cfg))
		if err != nil {
			return nil, err
		}
		if err := c.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis ping failed, session and response caching will degrade to misses")
		}
		return c, nil
	case "upstash":
		cfg := configx.MustNew[cachex.UpstashConfig]("UPSTASH_REDIS")
		return cachex.NewUpstashCache(*cfg)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}

func newFeedbackSink(ctx context.Context, kind string) (contractx.FeedbackSink, func(), error) {
	noop := func() {}

	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "memory":
		return feedbackx.NewMemorySink(), noop, nil
	case "postgres":
		cfg := configx.MustNew[feedbackx.PostgresConfig]("POSTGRES")
		sink, err := feedbackx.NewPostgresSink(ctx, *cfg)
		if err != nil {
			return nil, noop, err
		}
		return sink, func() {
			if err := sink.Close(); err != nil {
				log.Warn().Err(err).Msg("close postgres feedback sink")
			}
		}, nil
	case "qstash":
		client, err := qstashx.NewClient(*configx.MustNew[qstashx.Config]("QSTASH"))
		if err != nil {
			return nil, noop, err
		}
		sink, err := feedbackx.NewQStashSink(client, *configx.MustNew[feedbackx.QStashConfig]("FEEDBACK_QSTASH"))
		if err != nil {
			return nil, noop, err
		}
		return sink, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown feedback sink %q", kind)
	}
}
