package bootstrap

import (
	"context"
	"errors"
	"log"
	"time"

	"pregnancy-nutrition-be/internal/config"
	"pregnancy-nutrition-be/internal/controller"
	"pregnancy-nutrition-be/internal/pkg/logger"
	"pregnancy-nutrition-be/internal/service"
	"pregnancy-nutrition-be/pkg/answer/cache"
	"pregnancy-nutrition-be/pkg/answer/dataset"
	"pregnancy-nutrition-be/pkg/answer/fallback"
	"pregnancy-nutrition-be/pkg/answer/provider"
	"pregnancy-nutrition-be/pkg/answer/quality"
	"pregnancy-nutrition-be/pkg/answer/ratelimit"
	"pregnancy-nutrition-be/pkg/answer/resolver"
	"pregnancy-nutrition-be/pkg/llm"
	"pregnancy-nutrition-be/pkg/llm/factory"

	pktNats "pregnancy-nutrition-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

const answerTopic = "answers.resolved"

type Container struct {
	// Controllers
	ChatbotController controller.IChatbotController

	// Exposed for main.go and the CLI
	Engine          *resolver.Engine
	ConsumerService service.IConsumerService
	Logger          logger.ILogger

	closers []func()
}

// NewContainer wires the answer engine and its infrastructure. Missing credentials,
// an unreachable NATS or Redis only degrade the service; they never stop it from starting.
func NewContainer(cfg *config.Config, engineOpts ...resolver.Option) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	interactionLog := logger.NewIsolatedLogger(cfg.App.InteractionLogPath)
	c := &Container{Logger: sysLogger}
	c.closers = append(c.closers, func() { _ = interactionLog.Sync() })

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var mirror service.EventPublisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			mirror = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// 3. Answer engine components
	limiter := ratelimit.NewLimiter(cfg.Chatbot.RateLimitPerMin)
	responseCache := newResponseCache(cfg, sysLogger)

	records, err := loadDataset(cfg.Chatbot.DatasetPath)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load knowledge dataset: %v", err)
	}
	datasetSource := dataset.NewSource(records, cfg.Chatbot.DatasetMinOverlap)
	log.Printf("[INFO] Knowledge dataset loaded: %d records", datasetSource.Len())

	stats := service.NewStatsService()
	publisherService := service.NewPublisherService(answerTopic, pubSub, mirror, sysLogger)
	c.ConsumerService = service.NewConsumerService(pubSub, answerTopic, stats, interactionLog, sysLogger)

	aiTimeout := seconds(cfg.Ai.TimeoutSeconds)
	c.Engine = resolver.NewEngine(
		resolver.Deps{
			Limiter:   limiter,
			Cache:     responseCache,
			Dataset:   datasetSource,
			Adapters:  buildAdapters(cfg, aiTimeout, sysLogger),
			Evaluator: quality.NewEvaluator(cfg.Chatbot.QualityMinLength, nil),
			Terminal:  fallback.NewResponder(),
			Annotator: fallback.NewAnnotator(),
			Logger:    sysLogger,
		},
		resolver.Config{
			ResolveTimeout: seconds(cfg.Chatbot.ResolveTimeoutSeconds),
			AITimeout:      aiTimeout,
			CacheTTL:       time.Duration(cfg.Chatbot.CacheTTLSeconds) * time.Second,
		},
		append([]resolver.Option{resolver.WithObserver(publisherService)}, engineOpts...)...,
	)
	c.Engine.WarmUp(context.Background())

	chatbotService := service.NewChatbotService(
		c.Engine,
		limiter,
		responseCache,
		datasetSource.Len(),
		stats,
		sysLogger,
	)

	// 4. Controllers
	c.ChatbotController = controller.NewChatbotController(chatbotService)

	return c
}

// Close releases the event bus connections and flushes the logger
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

func newResponseCache(cfg *config.Config, sysLogger logger.ILogger) *cache.ResponseCache {
	ttl := time.Duration(cfg.Chatbot.CacheTTLSeconds) * time.Second

	if cfg.Chatbot.CacheBackend == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v (cache lookups will miss until it is reachable)", err)
		}
		return cache.NewResponseCache(cache.NewRedisStore(rdb), ttl, sysLogger)
	}

	return cache.NewResponseCache(cache.NewMemoryStore(cfg.Chatbot.CacheMaxEntries, time.Now), ttl, sysLogger)
}

func loadDataset(path string) ([]dataset.Record, error) {
	if path == "" {
		return dataset.Default()
	}
	return dataset.LoadFile(path)
}

// buildAdapters keeps unconfigured backends in the chain so health reports them
func buildAdapters(cfg *config.Config, timeout time.Duration, sysLogger logger.ILogger) []provider.Adapter {
	adapters := make([]provider.Adapter, 0, len(cfg.Ai.ProviderOrder))
	for _, name := range cfg.Ai.ProviderOrder {
		p, err := factory.NewLLMProvider(name, providerSettings(cfg, name))
		switch {
		case errors.Is(err, llm.ErrNotConfigured):
			log.Printf("[WARN] LLM provider %s has no credentials; it will be skipped", name)
		case err != nil:
			log.Printf("[WARN] Ignoring LLM provider %s: %v", name, err)
			continue
		default:
			log.Printf("[INFO] Using LLM provider: %s", name)
		}

		adapters = append(adapters, provider.NewLLMAdapter(name, p,
			provider.WithTimeout(timeout),
			provider.WithMaxTokens(cfg.Ai.MaxTokens),
			provider.WithMaxRPM(cfg.Ai.MaxRPM),
			provider.WithLogger(sysLogger),
		))
	}
	return adapters
}

func providerSettings(cfg *config.Config, name string) factory.Settings {
	switch name {
	case "gemini":
		return factory.Settings{APIKey: cfg.Keys.Gemini, Model: cfg.Ai.GeminiModel}
	case "solar":
		return factory.Settings{APIKey: cfg.Keys.Upstage, Model: cfg.Ai.SolarModel, BaseURL: cfg.Ai.UpstageBaseURL}
	case "huggingface":
		return factory.Settings{APIKey: cfg.Keys.HuggingFace, Model: cfg.Ai.HuggingFaceModel, BaseURL: cfg.Ai.HuggingFaceURL}
	case "claude":
		return factory.Settings{APIKey: cfg.Keys.Anthropic, Model: cfg.Ai.ClaudeModel}
	case "ollama":
		return factory.Settings{Model: cfg.Ai.OllamaModel, BaseURL: cfg.Ai.OllamaBaseURL}
	}
	return factory.Settings{}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
