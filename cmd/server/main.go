// Command server runs the document verification engine: the HTTP API, the
// registry store adapters, and the identity enrichment pipeline. Business
// logic lives in the internal services; main only wires dependencies and
// owns the process lifecycle.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"veridoc/internal/identity"
	identityhandler "veridoc/internal/identity/handler"
	identitymetrics "veridoc/internal/identity/metrics"
	identitymodels "veridoc/internal/identity/models"
	"veridoc/internal/identity/resolver"
	"veridoc/internal/issuance"
	issuancehandler "veridoc/internal/issuance/handler"
	onboardinghandler "veridoc/internal/onboarding/handler"
	"veridoc/internal/platform/config"
	"veridoc/internal/platform/httpserver"
	"veridoc/internal/platform/logger"
	"veridoc/internal/platform/metrics"
	platformredis "veridoc/internal/platform/redis"
	"veridoc/internal/registry"
	registrymetrics "veridoc/internal/registry/metrics"
	"veridoc/internal/registry/store"
	httptransport "veridoc/internal/transport/http"
	"veridoc/internal/verification"
	verificationhandler "veridoc/internal/verification/handler"
	verificationmetrics "veridoc/internal/verification/metrics"
	"veridoc/pkg/platform/audit/publisher"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	// Registry store: Postgres when a DSN is set, Redis when a URL is set,
	// in-memory otherwise.
	backing, cleanup, err := newRegistryStore(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	registryClient := registry.NewRetrying(backing,
		registry.RetryPolicy{MaxAttempts: cfg.Registry.MaxAttempts, Backoff: cfg.Registry.Backoff},
		registry.WithRetryLogger(log),
		registry.WithRetryMetrics(registrymetrics.New()),
	)

	orgDirectory, err := identity.NewHTTPDirectory(
		cfg.Enrichment.OrganizationDirectoryURL, identitymodels.KindOrganization, cfg.Enrichment.DirectoryTimeout)
	if err != nil {
		return err
	}
	subjectDirectory, err := identity.NewHTTPDirectory(
		cfg.Enrichment.SubjectDirectoryURL, identitymodels.KindSubject, cfg.Enrichment.DirectoryTimeout)
	if err != nil {
		return err
	}
	identityResolver := resolver.New(orgDirectory, subjectDirectory,
		resolver.WithLogger(log),
		resolver.WithMetrics(identitymetrics.New()),
		resolver.WithConcurrency(cfg.Enrichment.Concurrency),
		resolver.WithCallTimeout(cfg.Enrichment.DirectoryTimeout),
	)

	auditPublisher, closePublisher, err := newAuditPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	verifySvc := verification.New(registryClient, identityResolver,
		verification.WithLogger(log),
		verification.WithMetrics(verificationmetrics.New()),
		verification.WithAuditPublisher(auditPublisher),
		verification.WithCallTimeout(cfg.Verification.CallTimeout),
		verification.WithEnrichmentTimeout(cfg.Verification.EnrichmentTimeout),
	)

	blobs, err := issuance.NewFSBlobStore(cfg.BlobDir)
	if err != nil {
		return err
	}
	issueSvc := issuance.New(registryClient, blobs, issuance.NewReceiptSigner(cfg.ReceiptSigningKey),
		issuance.WithLogger(log),
		issuance.WithAuditPublisher(auditPublisher),
	)

	router := httptransport.NewRouter(httptransport.Handlers{
		Verification: verificationhandler.New(verifySvc, log),
		Issuance:     issuancehandler.New(issueSvc, log),
		Identity:     identityhandler.New(verifySvc, log),
		Onboarding:   onboardinghandler.New(log),
	}, log, metrics.New())

	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting veridoc server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func newRegistryStore(cfg config.Server, log *slog.Logger) (registry.Client, func(), error) {
	switch {
	case cfg.Postgres.DSN != "":
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info("registry store ready", "backend", "postgres")
		return store.NewPostgres(db), func() { db.Close() }, nil

	case cfg.Redis.URL != "":
		client, err := platformredis.New(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		log.Info("registry store ready", "backend", "redis")
		return store.NewRedis(client.Client), func() { client.Close() }, nil

	default:
		log.Warn("registry store ready", "backend", "memory")
		return store.NewInMemory(), func() {}, nil
	}
}

func newAuditPublisher(cfg config.Server, log *slog.Logger) (publisher.Publisher, func(), error) {
	if len(cfg.Kafka.Seeds) == 0 {
		log.Warn("audit publisher running in-memory, no kafka seeds configured")
		return publisher.NewMemory(), func() {}, nil
	}
	kafka, err := publisher.NewKafka(cfg.Kafka.Seeds, cfg.Kafka.Topic)
	if err != nil {
		return nil, nil, err
	}
	log.Info("audit publisher ready", "topic", cfg.Kafka.Topic)
	return kafka, kafka.Close, nil
}
