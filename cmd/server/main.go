package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/avvvet/couponbuddy-assistant/internal/api"
	"github.com/avvvet/couponbuddy-assistant/internal/assistant"
	"github.com/avvvet/couponbuddy-assistant/internal/config"
	"github.com/avvvet/couponbuddy-assistant/internal/coupons"
	"github.com/avvvet/couponbuddy-assistant/internal/handlers"
	"github.com/avvvet/couponbuddy-assistant/internal/llm"
	"github.com/avvvet/couponbuddy-assistant/internal/memory"
	"github.com/avvvet/couponbuddy-assistant/internal/prompts"
	"github.com/avvvet/couponbuddy-assistant/internal/ranking"
	"github.com/avvvet/couponbuddy-assistant/internal/transport"
	"github.com/avvvet/couponbuddy-assistant/pkg/db"
)

func main() {
	// Load .env file if it exists (for development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	log.Println("🚀 Starting CouponBuddy Assistant Service...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	log.Printf("📋 Service: %s", cfg.ServiceName)
	log.Printf("🎟️ Coupon source: %s", cfg.CouponSource)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Conversation store
	var store memory.Store
	var redisStore *memory.RedisStore
	if cfg.RedisURL != "" {
		log.Printf("🔌 Connecting to Redis: %s", cfg.RedisURL)
		redisStore, err = memory.NewRedisStore(cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			log.Fatalf("❌ Failed to connect to Redis: %v", err)
		}
		store = redisStore
		log.Println("✅ Redis connected")
	} else {
		store = memory.NewInMemoryStore()
		log.Println("💾 REDIS_URL empty, keeping chat history in memory")
	}

	memoryManager := memory.NewManager(store)
	defer memoryManager.Close()

	g, gctx := errgroup.WithContext(ctx)

	source, closeSource, err := buildSource(gctx, g, cfg, redisStore)
	if err != nil {
		log.Fatalf("❌ Failed to initialize coupon source: %v", err)
	}
	defer closeSource()

	kb := prompts.Default()
	if cfg.KnowledgeBasePath != "" {
		kb, err = prompts.LoadKnowledgeBase(cfg.KnowledgeBasePath)
		if err != nil {
			log.Fatalf("❌ Failed to load knowledge base: %v", err)
		}
		log.Printf("📚 Knowledge base loaded from %s", cfg.KnowledgeBasePath)
	}

	scorer := ranking.NewScorer(ranking.Options{ApplyRecencyBoost: cfg.ApplyRecencyBoost})
	chatAssistant := assistant.New(assistant.Options{Knowledge: kb, Scorer: scorer})
	provider := llm.NewLocalProvider(chatAssistant, cfg.InferenceLatency, cfg.InferenceTimeout)

	chatHandler := handlers.NewChatHandler(provider, memoryManager, source)
	couponHandler := handlers.NewCouponHandler(source, scorer)
	log.Println("✅ Handlers initialized")

	if cfg.NatsEnabled {
		log.Printf("📡 Connecting to NATS: %s", cfg.NatsURL)
		natsTransport, err := transport.NewNATSTransport(cfg, chatHandler, couponHandler)
		if err != nil {
			log.Fatalf("❌ Failed to initialize NATS transport: %v", err)
		}
		if err := natsTransport.Start(); err != nil {
			log.Fatalf("❌ Failed to start NATS transport: %v", err)
		}
		g.Go(func() error {
			<-gctx.Done()
			return natsTransport.Close()
		})
	}

	if cfg.HTTPAddr != "" {
		srv := &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      api.NewRouter(chatHandler, couponHandler),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: cfg.InferenceTimeout + 5*time.Second,
			IdleTimeout:  60 * time.Second,
		}
		g.Go(func() error {
			log.Printf("🌐 HTTP listening on %s", cfg.HTTPAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	log.Println("✅ CouponBuddy Assistant Service is running!")

	if err := g.Wait(); err != nil {
		log.Printf("⚠️ Service stopped with error: %v", err)
	}

	log.Printf("📊 Final session count: %d", memoryManager.ActiveSessionCount())
	log.Println("👋 CouponBuddy Assistant Service stopped")
}

// buildSource creates the configured coupon source. The file source's
// watcher runs on g.
func buildSource(ctx context.Context, g *errgroup.Group, cfg *config.Config, redisStore *memory.RedisStore) (coupons.Source, func(), error) {
	noop := func() {}

	switch cfg.CouponSource {
	case coupons.KindRedis:
		if redisStore == nil {
			return nil, noop, fmt.Errorf("redis coupon source needs REDIS_URL")
		}
		return coupons.NewRedisSource(redisStore.Client()), noop, nil

	case coupons.KindPostgres:
		conn, err := db.NewPostgresConnection(ctx, cfg.Postgres)
		if err != nil {
			return nil, noop, err
		}
		log.Printf("✅ Postgres connected: %s/%s", cfg.Postgres.Host, cfg.Postgres.DBName)
		return coupons.NewPostgresSource(conn), func() { conn.Close() }, nil

	case coupons.KindFile:
		fs, err := coupons.NewFileSource(cfg.CouponDir)
		if err != nil {
			return nil, noop, err
		}
		log.Printf("📂 Loaded %d coupon files from %s", fs.Domains(), cfg.CouponDir)
		g.Go(func() error { return fs.Watch(ctx) })
		return fs, func() { fs.Close() }, nil

	default:
		return coupons.NewStaticSource(), noop, nil
	}
}
