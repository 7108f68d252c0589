package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"constructhub/config"
	"constructhub/internal/api"
	"constructhub/internal/delivery"
	"constructhub/internal/notify"
	"constructhub/internal/repository"
	"constructhub/internal/service"
	"constructhub/pkg/db"
	"constructhub/pkg/docstore"
	"constructhub/pkg/idgen"
	"constructhub/pkg/logger"
	"constructhub/pkg/otel"
	"constructhub/pkg/outbox"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger("api")
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := idgen.Init(cfg.Worker.NodeID); err != nil {
		log.Fatal("Invalid snowflake node id", zap.Int64("node_id", cfg.Worker.NodeID), zap.Error(err))
	}

	cfg.OTel.ServiceName = cfg.OTel.ServiceName + "-api"
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

	// Init Repositories
	projectRepo := repository.NewProjectRepository(store, log)
	invoiceRepo := repository.NewInvoiceRepository(store, log)
	consultationRepo := repository.NewConsultationRepository(store, log)
	userRepo := repository.NewUserRepository(store, log)
	notificationRepo := repository.NewNotificationRepository(store, log)
	liveUpdateRepo := repository.NewLiveUpdateRepository(store, log)

	// Init Services
	pushClient := delivery.NewPushClient(cfg.Delivery.PushURL, cfg.Delivery.Timeout(), log)
	emailClient := delivery.NewEmailClient(cfg.Delivery.EmailURL, cfg.Delivery.Timeout(), log)
	notifier := notify.NewService(userRepo, notificationRepo, pushClient, emailClient, log)
	projectService := service.NewProjectService(projectRepo, liveUpdateRepo, log)
	reportService := service.NewReportService(invoiceRepo, consultationRepo, log)
	replayService := outbox.NewReplayService(outbox.NewRepository(pool))

	router := api.NewRouter(
		api.RouterConfig{
			JWTSecret:   cfg.JWT.Secret,
			ServiceName: cfg.OTel.ServiceName,
			Tracing:     telemetry != nil,
			Checks: map[string]api.ReadinessCheck{
				"postgres": pool.Ping,
			},
		},
		api.NewProjectHandler(projectService, log),
		api.NewReportHandler(reportService, log),
		api.NewNotificationHandler(notifier, notificationRepo, log),
		api.NewAdminHandler(replayService, log),
		log,
	)

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           router.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("API server listening", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server start failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
	notifier.Wait()
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		log.Error("Telemetry shutdown failed", zap.Error(err))
	}
}
