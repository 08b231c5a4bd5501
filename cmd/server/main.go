package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"league-core/config"
	"league-core/internal/cache"
	"league-core/internal/database"
	"league-core/internal/handler"
	"league-core/internal/queue"
	"league-core/internal/repository"
	"league-core/internal/service"
	"league-core/internal/worker"
	"league-core/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// .env 不存在時直接用環境變數
	_ = godotenv.Load(".env")
	defer logger.Sync()
	log := logger.WithComponent("server")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal("Failed to migrate schema", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	defer rdb.Close()

	bus, closeBus, err := newEventBus(ctx, cfg, rdb)
	if err != nil {
		log.Fatal("Failed to initialize event bus", zap.Error(err))
	}
	defer closeBus()

	router := newRouter(cfg, pool, rdb, bus)

	seatCache := cache.NewSeatAvailabilityCache(rdb)
	if err := worker.NewProjectionWorker(bus, seatCache, repository.NewSaleRepository(pool)).Start(ctx); err != nil {
		log.Fatal("Failed to start projection worker", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("HTTP server listening", zap.String("addr", cfg.HTTP.Addr), zap.String("event_bus", string(cfg.Bus.Kind)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
}

func newEventBus(ctx context.Context, cfg *config.Config, rdb *redis.Client) (queue.EventBus, func(), error) {
	switch cfg.Bus.Kind {
	case config.BusMemory:
		return queue.NewMemoryEventBus(1024), func() {}, nil
	case config.BusRedis:
		bus, err := queue.NewRedisStreamEventBus(ctx, rdb, cfg.Bus.ConsumerID, nil)
		if err != nil {
			return nil, nil, err
		}
		return bus, func() {}, nil
	case config.BusAMQP:
		bus, err := queue.NewAMQPEventBus(cfg.Bus.AMQPURL, cfg.Bus.AMQPExchange, "league.projections")
		if err != nil {
			return nil, nil, err
		}
		return bus, func() { _ = bus.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown event bus %q", cfg.Bus.Kind)
	}
}

func newRouter(cfg *config.Config, pool *pgxpool.Pool, rdb *redis.Client, bus queue.EventBus) *gin.Engine {
	txManager := database.NewTxManager(pool, cfg.Database.LockTimeout)

	eventRepo := repository.NewEventRepository(pool)
	matchRepo := repository.NewMatchRepository(pool)
	saleRepo := repository.NewSaleRepository(pool)

	ticketing := service.NewTicketingService(
		txManager,
		eventRepo,
		matchRepo,
		repository.NewSeatRepository(pool),
		repository.NewCustomerRepository(pool),
		saleRepo,
		repository.NewRefundAuditRepository(pool),
		service.WithEventBus(bus),
	)
	matchResults := service.NewMatchResultService(
		txManager,
		matchRepo,
		repository.NewTeamRepository(pool),
		repository.NewPlayerRepository(pool),
		service.WithEventBus(bus),
	)
	availability := service.NewAvailabilityService(eventRepo, saleRepo, cache.NewSeatAvailabilityCache(rdb))

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.NewTicketHandler(ticketing, availability).RegisterRoutes(router)
	handler.NewMatchHandler(matchResults).RegisterRoutes(router)

	return router
}
