package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"constructhub/config"
	mqcontracts "constructhub/contracts/mq"
	"constructhub/internal/delivery"
	"constructhub/internal/mqhandler"
	"constructhub/internal/notify"
	"constructhub/internal/repository"
	"constructhub/pkg/db"
	"constructhub/pkg/docstore"
	"constructhub/pkg/idgen"
	"constructhub/pkg/logger"
	"constructhub/pkg/mq"
	"constructhub/pkg/otel"
	"constructhub/pkg/outbox"
	redisclient "constructhub/pkg/redis"
	"constructhub/pkg/util"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger("worker")
	defer log.Sync()

	log.Info("Starting worker service...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// API 和 worker 使用不同的 snowflake 节点
	if err := idgen.Init(cfg.Worker.NodeID + 1); err != nil {
		log.Fatal("Invalid snowflake node id", zap.Int64("node_id", cfg.Worker.NodeID+1), zap.Error(err))
	}

	cfg.OTel.ServiceName = cfg.OTel.ServiceName + "-worker"
	telemetry, err := otel.Setup(ctx, cfg.OTel, log)
	if err != nil {
		log.Fatal("OpenTelemetry initialization failed", zap.Error(err))
	}

	// Init DB
	pool, err := db.NewConnection(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer pool.Close()

	if err := docstore.EnsureSchema(ctx, pool, docstore.Schema, outbox.Schema); err != nil {
		log.Fatal("Schema migration failed", zap.Error(err))
	}
	store := docstore.New(pool, log)

	// Init Redis
	rdb, err := redisclient.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Fatal("Redis initialization failed", zap.Error(err))
	}
	defer rdb.Close()

	dedupTTL := time.Duration(cfg.Worker.DedupTTLSeconds) * time.Second
	if dedupTTL <= 0 {
		dedupTTL = 24 * time.Hour
	}
	deduper := util.NewDeduper(rdb, dedupTTL, log)

	// Outbox → RabbitMQ
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("failed to init publisher", zap.Error(err))
	}
	defer publisher.Close()

	dispatcher := outbox.NewDispatcher(outbox.NewRepository(pool), publisher, log)
	if cfg.Worker.OutboxMaxRetries > 0 {
		dispatcher.WithMaxRetries(cfg.Worker.OutboxMaxRetries)
	}
	if cfg.Worker.OutboxIntervalMS > 0 {
		dispatcher.WithInterval(time.Duration(cfg.Worker.OutboxIntervalMS) * time.Millisecond)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		dispatcher.Start(ctx)
	}()

	// Init Repositories & Services
	projectRepo := repository.NewProjectRepository(store, log)
	userRepo := repository.NewUserRepository(store, log)
	notificationRepo := repository.NewNotificationRepository(store, log)

	pushClient := delivery.NewPushClient(cfg.Delivery.PushURL, cfg.Delivery.Timeout(), log)
	emailClient := delivery.NewEmailClient(cfg.Delivery.EmailURL, cfg.Delivery.Timeout(), log)
	notifier := notify.NewService(userRepo, notificationRepo, pushClient, emailClient, log)

	// Init Handlers
	liveUpdateHandler := mqhandler.NewLiveUpdatePostedHandler(projectRepo, notifier, deduper, log)
	batchWrittenHandler := mqhandler.NewBatchWrittenHandler(log)

	consumers := []struct {
		queue      string
		routingKey string
		handler    mq.MessageHandler
	}{
		{"live_update.fanout.q", mqcontracts.RoutingKeyLiveUpdatePosted, liveUpdateHandler.Handle},
		{"notification.batch_written.log.q", mqcontracts.RoutingKeyNotificationBatchWritten, batchWrittenHandler.Handle},
	}

	var started []*mq.Consumer
	for _, c := range consumers {
		log.Info("Initializing consumer", zap.String("queue", c.queue))
		consumer, err := mq.NewConsumer(cfg.MQ.URL, c.queue, c.routingKey, log)
		if err != nil {
			log.Fatal("failed to init consumer", zap.String("queue", c.queue), zap.Error(err))
		}
		consumer.SetHandler(c.handler)
		started = append(started, consumer)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.StartConsuming(); err != nil {
				log.Error("consumer failed", zap.String("queue", c.queue), zap.Error(err))
				stop()
			}
		}()
	}

	metricsSrv := &http.Server{
		Addr:              cfg.Worker.MetricsAddr,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	if metricsSrv.Addr != "" {
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	log.Info("All consumers started, worker is ready to process messages")
	<-ctx.Done()
	log.Info("Shutting down worker")

	for _, c := range started {
		c.Stop()
	}
	wg.Wait()
	notifier.Wait()
	for _, c := range started {
		c.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		log.Error("Telemetry shutdown failed", zap.Error(err))
	}
}
