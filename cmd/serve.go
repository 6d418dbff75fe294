package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/RaikyD/store-admin/internal/application"
	"github.com/RaikyD/store-admin/internal/config"
	"github.com/RaikyD/store-admin/internal/kafka"
	"github.com/RaikyD/store-admin/internal/logger"
	"github.com/RaikyD/store-admin/internal/metrics"
	"github.com/RaikyD/store-admin/internal/migrate"
	"github.com/RaikyD/store-admin/internal/presentation"
	"github.com/RaikyD/store-admin/internal/repository"
	"github.com/RaikyD/store-admin/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		logger.Init(cfg.Production(), cfg.LOG_LEVEL)
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply migrations before serving")
}

func serve(ctx context.Context, cfg *config.Config) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	if migrateOnStart {
		if err := migrate.Up(cfg.DB_STRING); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	// DB pool
	pool, err := pgxpool.New(ctx, cfg.DB_STRING)
	if err != nil {
		logger.Error("pgxpool new failed", "err", err)
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("db ping failed", "err", err)
		return err
	}
	logger.Info("db connected")

	reg := metrics.NewRegistry()
	orders := repository.NewOrderRepository(pool)
	products := repository.NewProductRepository(pool)
	customers := repository.NewCustomerRepository(pool)

	analyticsSvc := application.NewAnalyticsService(orders, products, customers, reg, loc, cfg.CACHE_TTL)

	var pub application.Publisher
	if cfg.KafkaEnabled() {
		prod := kafka.NewProducer(cfg.KAFKA_BROKERS, cfg.KAFKA_TOPIC)
		defer prod.Close()
		pub = prod

		kafka.StartConsumer(ctx, analyticsSvc, kafka.ConsumerConfig{
			Brokers: cfg.KAFKA_BROKERS,
			Topic:   cfg.KAFKA_TOPIC,
			GroupID: cfg.KAFKA_GROUP_ID,
		})
	} else {
		logger.Warn("KAFKA_BROKERS not set; cache invalidation stays local")
	}

	var images application.ImageStore
	if cfg.S3_BUCKET != "" {
		s3store, err := storage.NewS3ImageStore(ctx, cfg.S3_REGION, cfg.S3_BUCKET, cfg.S3_PUBLIC_URL)
		if err != nil {
			return err
		}
		images = s3store
	} else {
		logger.Warn("S3_BUCKET not set; image uploads disabled")
	}

	changes := application.NewChangeNotifier(analyticsSvc, pub, reg)
	handler := presentation.NewRouter(presentation.Handlers{
		Analytics: presentation.NewAnalyticsHandler(analyticsSvc),
		Products:  presentation.NewProductsHandler(application.NewProductsService(products, images, changes)),
		Orders:    presentation.NewOrdersHandler(application.NewOrdersService(orders, changes)),
		Customers: presentation.NewCustomersHandler(application.NewCustomersService(customers, orders)),
	}, reg, pool)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP_PORT,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting http", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server crashed", "err", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
