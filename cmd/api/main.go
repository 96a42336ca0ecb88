package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-shop-api/internal/config"
	"github.com/ariefcatur/go-shop-api/internal/httpx"
	kafkax "github.com/ariefcatur/go-shop-api/internal/kafka"
	"github.com/ariefcatur/go-shop-api/internal/mongodb"
	"github.com/ariefcatur/go-shop-api/internal/postgres"
	"github.com/ariefcatur/go-shop-api/internal/redisx"
	"github.com/ariefcatur/go-shop-api/internal/shop"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(os.Stdout, "[shop-api] ", log.LstdFlags|log.Lshortfile)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := openStore(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Fatalf("store: %v", err)
	}

	// products are immutable, so id lookups can be served from redis
	var products shop.ProductStore = store
	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		products = redisx.NewProductCache(store, rdb, logger)
		logger.Printf("product cache enabled (redis %s)", cfg.RedisAddr)
	}

	var (
		prod   *kafkax.Producer
		events httpx.EventPublisher
	)
	if len(cfg.KafkaBrokers) > 0 {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, 1024, logger)
		prod.Start()
		events = prod
		logger.Printf("publishing events to %v", cfg.KafkaBrokers)
	}

	var mws []func(http.Handler) http.Handler
	if cfg.RateRPS > 0 {
		mws = append(mws, httpx.NewRateLimiter(cfg.RateRPS, cfg.RateBurst).Middleware)
	}

	router := httpx.NewRouter(mws...)
	ph := &httpx.ProductsHandler{
		Catalog: shop.NewCatalogService(store),
		Events:  events,
		Service: cfg.ServiceName,
		Logger:  logger,
	}
	ph.Register(router)
	oh := &httpx.OrdersHandler{
		Orders:  shop.NewOrderService(products, store),
		Events:  events,
		Service: cfg.ServiceName,
		Logger:  logger,
	}
	oh.Register(router)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Printf("HTTP listening at %s (store: %s)", cfg.HTTPAddr, cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Printf("http shutdown: %v", err)
	}
	if prod != nil {
		prod.Close() // flushes pending events
	}
	if err := store.Close(ctx2); err != nil {
		logger.Printf("store close: %v", err)
	}
}

// openStore connects the configured backend and checks it is reachable.
func openStore(ctx context.Context, cfg config.Config, logger *log.Logger) (shop.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		s, err := mongodb.Connect(ctx, cfg.MongoURL, cfg.DatabaseName)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		return s, nil
	case config.DriverPostgres:
		if cfg.RunMigrations {
			if err := postgres.RunMigrations(cfg.PostgresDSN, logger); err != nil {
				return nil, err
			}
		}
		pool, err := postgres.Connect(ctx, cfg.PostgresDSN, cfg.ServiceName)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return postgres.New(pool), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
