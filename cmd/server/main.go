package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/es"
	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/mailer"
	"github.com/Skotchmaster/storefront/internal/metrics"
	loggingmw "github.com/Skotchmaster/storefront/internal/middleware/logging"
	"github.com/Skotchmaster/storefront/internal/mykafka"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/revocation"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

func main() {
	config.LoadDotenv(".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	r := &repo.GormRepo{DB: gdb}
	m := metrics.New("storefront")

	var (
		events *service.Events
		mail   mailer.Sender = &mailer.LogSender{Logger: logger}
	)
	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		if err := mykafka.EnsureTopics(cfg.KafkaBrokers[0], cfg.EventsTopic, cfg.MailTopic); err != nil {
			logger.Warn("kafka_topics_error", "error", err)
		}
		producer = mykafka.NewProducer(cfg.KafkaBrokers)
		events = &service.Events{Pub: producer, Topic: cfg.EventsTopic}
		mail = &mailer.KafkaSender{Pub: producer, Topic: cfg.MailTopic}
	} else {
		logger.Info("kafka disabled: events are dropped and mail is only logged")
	}

	products := &service.ProductService{Repo: r, Events: events}
	if cfg.ESURL != "" {
		client, err := es.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			logger.Warn("elasticsearch_unavailable", "reason", "search falls back to the database", "error", err)
		} else {
			idx := es.NewProductIndex(client, cfg.ESIndex)
			ensureCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := idx.EnsureIndex(ensureCtx); err != nil {
				logger.Warn("elasticsearch_index_error", "index", cfg.ESIndex, "error", err)
			}
			cancel()
			products.Index = idx
		}
	}

	revoked, closeRevoked := revocationStore(cfg, gdb, logger)
	defer closeRevoked()

	authSvc := &service.AuthService{
		Repo:      r,
		Signer:    tokens.NewSigner(cfg.SecretKey),
		Revoked:   revoked,
		Mailer:    mail,
		Events:    events,
		PublicURL: cfg.PublicURL,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())
	e.Use(m.Middleware())

	httpserver.Register(e, &httpserver.Deps{
		Catalog:   &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: r, Events: events}},
		Products:  &httpserver.ProductHTTP{Svc: products},
		Accounts:  &httpserver.AccountHTTP{Svc: authSvc, Metrics: m},
		Customers: &httpserver.CustomerHTTP{Svc: &service.CustomerService{Repo: r}},
		Staff:     &httpserver.StaffHTTP{Svc: &service.StaffService{Repo: r}},
		Authn:     authSvc,
		Ready:     func(ctx context.Context) error { return db.Ping(ctx, gdb) },
		Metrics:   m,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("storefront listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_error", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Warn("kafka_close_error", "error", err)
		}
	}
	db.Close(gdb)

	logger.Info("storefront stopped")
}

func revocationStore(cfg config.Config, gdb *gorm.DB, logger *slog.Logger) (revocation.Store, func()) {
	if cfg.RevocationBackend != config.RevocationRedis {
		return revocation.NewGormStore(gdb), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis ping %s: %v", cfg.RedisAddr, err)
	}
	logger.Info("token revocation backed by redis", "addr", cfg.RedisAddr)

	return revocation.NewRedisStore(client), func() { _ = client.Close() }
}
