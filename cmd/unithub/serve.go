package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"unithub/internal/ai"
	"unithub/internal/config"
	"unithub/internal/database"
	"unithub/internal/events"
	httpapi "unithub/internal/http"
	"unithub/internal/logger"
	"unithub/internal/metrics"
	"unithub/internal/middleware"
	"unithub/internal/repository"
	"unithub/internal/service"
	"unithub/internal/storage"
	"unithub/internal/store"
)

const serviceName = "unithub"

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, serviceName)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = log.Sync() }()
			return serve(cfg, log)
		},
	}
}

type repositories struct {
	tenants       repository.TenantsRepository
	payments      repository.RentPaymentsRepository
	maintenance   repository.MaintenanceRequestsRepository
	documents     repository.DocumentsRepository
	communication repository.CommunicationLogsRepository
}

func openRepositories(cfg *config.Config, log *zap.Logger) (*repositories, *sql.DB, error) {
	if !cfg.DBEnabled {
		log.Warn("DB disabled, using in-memory repositories")
		mem := repository.NewMemoryStore()
		return &repositories{
			tenants:       mem.Tenants(),
			payments:      mem.RentPayments(),
			maintenance:   mem.MaintenanceRequests(),
			documents:     mem.Documents(),
			communication: mem.CommunicationLogs(),
		}, nil, nil
	}

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	log.Info("Connected to Postgres",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Database),
	)
	return &repositories{
		tenants:       repository.NewPostgresTenantsRepository(db),
		payments:      repository.NewPostgresRentPaymentsRepository(db),
		maintenance:   repository.NewPostgresMaintenanceRepository(db),
		documents:     repository.NewPostgresDocumentsRepository(db),
		communication: repository.NewPostgresCommunicationLogsRepository(db),
	}, db, nil
}

func openObjectStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.ObjectStore, http.Handler, error) {
	switch cfg.Storage.Driver {
	case "s3":
		s3, err := storage.NewS3Store(storage.S3Config{
			Endpoint:  cfg.Storage.S3.Endpoint,
			AccessKey: cfg.Storage.S3.AccessKey,
			SecretKey: cfg.Storage.S3.SecretKey,
			Bucket:    cfg.Storage.S3.Bucket,
			Region:    cfg.Storage.S3.Region,
			UseSSL:    cfg.Storage.S3.UseSSL,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to prepare bucket %q: %w", cfg.Storage.S3.Bucket, err)
		}
		log.Info("Using S3 object storage", zap.String("bucket", cfg.Storage.S3.Bucket))
		return s3, nil, nil
	default:
		local, err := storage.NewLocalStore(cfg.Storage.LocalRoot, cfg.Storage.PublicURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Using local object storage", zap.String("root", cfg.Storage.LocalRoot))
		return local, http.FileServer(http.Dir(cfg.Storage.LocalRoot)), nil
	}
}

func serve(cfg *config.Config, log *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewMetrics()
	readiness := map[string]httpapi.ReadinessCheck{}

	repos, db, err := openRepositories(cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() { _ = database.Close(db) }()
		readiness["database"] = db.PingContext
	}

	var redisClient *redis.Client
	var cache store.KV
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = redisClient.Close() }()
		kv := store.NewRedisKV(redisClient)
		cache = kv
		readiness["redis"] = kv.Ping
	}

	var gen ai.Generator = ai.Disabled{}
	if cfg.AI.Enabled {
		gen = ai.NewClient(ai.Options{
			BaseURL:  cfg.AI.BaseURL,
			APIKey:   cfg.AI.APIKey,
			Model:    cfg.AI.Model,
			Timeout:  cfg.AI.Timeout,
			CacheTTL: cfg.AI.CacheTTL,
		}, cache, m, log)
	} else {
		log.Warn("AI disabled, text-generation endpoints will fail")
	}

	objects, files, err := openObjectStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.MQTT.Enabled {
		mq, err := events.NewMQTTPublisher(events.MQTTOptions{
			Broker:      cfg.MQTT.Broker,
			ClientID:    cfg.MQTT.ClientID,
			Username:    cfg.MQTT.Username,
			Password:    cfg.MQTT.Password,
			QoS:         cfg.MQTT.QoS,
			TopicPrefix: cfg.MQTT.TopicPrefix,
		}, log)
		if err != nil {
			return err
		}
		defer mq.Close()
		publisher = mq
	}

	common := service.Common{
		Events:  publisher,
		Metrics: m,
		Logger:  log,
	}
	svc := httpapi.Services{
		Tenants:       service.NewTenantService(common, repos.tenants, repos.documents, objects),
		RentPayments:  service.NewRentPaymentService(common, repos.payments, repos.tenants, gen),
		Maintenance:   service.NewMaintenanceService(common, repos.maintenance, repos.tenants, gen),
		Documents:     service.NewDocumentService(common, repos.documents, repos.tenants, objects, gen),
		Communication: service.NewCommunicationService(common, repos.communication, repos.tenants),
		Dashboard: service.NewDashboardService(common, repos.tenants, repos.payments, repos.maintenance, service.DashboardOptions{
			RecentLimit:  cfg.Dashboard.RecentLimit,
			UpcomingDays: cfg.Dashboard.UpcomingDays,
		}),
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimiter.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimiter.RequestsPerSecond, cfg.RateLimiter.BurstSize, log)
	}
	if cfg.Auth.Disabled {
		log.Warn("Auth disabled, all requests belong to the dev owner", zap.String("owner_id", cfg.Auth.DevOwnerID))
	}

	router := httpapi.NewRouter(svc, httpapi.Options{
		Auth: middleware.AuthConfig{
			Disabled:   cfg.Auth.Disabled,
			Secret:     cfg.Auth.JWTSecret,
			DevOwnerID: cfg.Auth.DevOwnerID,
		},
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		RateLimiter:    limiter,
		Metrics:        m,
		Readiness:      readiness,
		MaxUploadBytes: cfg.HTTP.MaxUploadBytes,
		Files:          files,
	}, log)

	srv := service.NewServer(cfg.HTTP.Addr, router, service.ServerTimeouts{
		Read:  cfg.HTTP.ReadTimeout,
		Write: cfg.HTTP.WriteTimeout,
		Idle:  cfg.HTTP.IdleTimeout,
	}, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigCh:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	return runErr
}
