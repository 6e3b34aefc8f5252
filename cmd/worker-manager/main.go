// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arthverse/arthverse/internal/api"
	"github.com/arthverse/arthverse/internal/common/aws"
	"github.com/arthverse/arthverse/internal/common/camunda"
	"github.com/arthverse/arthverse/internal/common/config"
	"github.com/arthverse/arthverse/internal/common/database"
	"github.com/arthverse/arthverse/internal/common/logger"
	"github.com/arthverse/arthverse/internal/common/observability"
	"github.com/arthverse/arthverse/internal/common/validation"
	"github.com/arthverse/arthverse/internal/store"
	"github.com/arthverse/arthverse/pkg/registry"

	// Financial health
	chs "github.com/arthverse/arthverse/internal/workers/financial-health/compute-health-score"

	// Protection
	epg "github.com/arthverse/arthverse/internal/workers/protection/evaluate-protection-gap"
	gcc "github.com/arthverse/arthverse/internal/workers/protection/get-coverage-checklist"

	// Reporting and communication
	sss "github.com/arthverse/arthverse/internal/workers/communication/send-score-summary"
	ifs "github.com/arthverse/arthverse/internal/workers/reporting/index-financial-snapshot"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(operationName+" failed, retrying", map[string]interface{}{
				"error":       err,
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	opts := logger.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Service:     cfg.App.Name,
		Environment: cfg.App.Environment,
	}
	if cfg.Logging.Output != "" && cfg.Logging.Output != "stdout" {
		opts.OutputPaths = []string{cfg.Logging.Output}
	}
	zapLog := logger.New(opts)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	log.Info("starting worker manager", map[string]interface{}{"version": cfg.App.Version})

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}
	if cfg.Tracing.JaegerEndpoint != "" {
		exp, err := observability.NewJaegerExporter(cfg.Tracing.JaegerEndpoint)
		if err != nil {
			zapLog.Fatal("tracing init failed", zap.Error(err))
		}
		obs.EnableTracing(exp, cfg.Tracing.SampleRatio)
		log.Info("tracing enabled", map[string]interface{}{"endpoint": cfg.Tracing.JaegerEndpoint})
	}

	ctx := context.Background()

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClient(ctx, &camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			RequestTimeout:         config.Duration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, log, "zeebe connection")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	log.Info("zeebe client connected", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, log, "postgres connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.Migrate(ctx); err != nil {
		zapLog.Fatal("postgres migration failed", zap.Error(err))
	}
	log.Info("postgres connected", nil)

	// --- Redis ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		rdb = database.NewRedis(cfg.Database.Redis)
		if err := rdb.Ping(ctx); err != nil {
			_ = rdb.Close()
			return err
		}
		return nil
	}, 10, 2*time.Second, log, "redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	log.Info("redis connected", nil)

	// --- Elasticsearch ---
	var es *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		es, err = database.NewElasticsearch(cfg.Database.Elasticsearch, nil)
		if err != nil {
			return err
		}
		if err := es.Ping(ctx); err != nil {
			return err
		}
		return es.EnsureSnapshotIndex(ctx, cfg.Scoring.SnapshotIndex)
	}, 15, 2*time.Second, log, "elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	log.Info("elasticsearch connected", map[string]interface{}{"index": cfg.Scoring.SnapshotIndex})

	// --- Registry and validation ---
	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	validator, err := validation.New(reg)
	if err != nil {
		zapLog.Fatal("schema compilation failed", zap.Error(err))
	}

	st := store.New(pg.DB, rdb.Client, cfg.Scoring.CacheDuration(), log)

	// --- Workers ---
	var workers []*camunda.Worker
	open := func(taskType string, h camunda.JobHandler) {
		settings := config.WorkerSettings(cfg, taskType)
		if !settings.Enabled {
			log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
			return
		}
		workers = append(workers, camunda.Open(zeebe.GetClient(), taskType, settings, h, obs, log))
	}

	open(chs.TaskType, chs.NewHandler(chs.LoadConfig(cfg), st, validator, obs, log))
	open(epg.TaskType, epg.NewHandler(epg.LoadConfig(cfg), st, validator, obs, log))
	open(gcc.TaskType, gcc.NewHandler(gcc.LoadConfig(cfg), st, validator, log))
	open(ifs.TaskType, ifs.NewHandler(ifs.LoadConfig(cfg), es.Client, st, validator, log))

	if config.IsWorkerEnabled(cfg, sss.TaskType) {
		clients, err := aws.NewClients(ctx, cfg.AWS.Region)
		if err != nil {
			zapLog.Fatal("aws clients init failed", zap.Error(err))
		}
		handler, err := sss.NewHandler(
			sss.LoadConfig(cfg),
			aws.NewMailer(clients.SES, cfg.AWS.SES.FromEmail),
			aws.NewSMSSender(clients.SNS, cfg.AWS.SNS.SenderID),
			st, validator, log,
		)
		if err != nil {
			zapLog.Fatal("send-score-summary config invalid", zap.Error(err))
		}
		open(sss.TaskType, handler)
	}

	log.Info("workers registered", map[string]interface{}{"count": len(workers)})

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{}
		ready := true
		for name, ping := range map[string]func(context.Context) error{
			"zeebe":         zeebe.HealthCheck,
			"postgres":      pg.Ping,
			"redis":         rdb.Ping,
			"elasticsearch": es.Ping,
		} {
			if err := ping(checkCtx); err != nil {
				checks[name] = err.Error()
				ready = false
				continue
			}
			checks[name] = "ok"
		}

		status := http.StatusOK
		checks["status"] = "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			checks["status"] = "not ready"
		}
		writeStatus(w, status, checks)
	})
	mux.Handle("/metrics", promhttp.Handler())

	healthAddr := ":" + strconv.Itoa(cfg.App.HealthPort)
	healthServer := &http.Server{Addr: healthAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"addr": healthAddr})
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err})
		}
	}()

	// --- Preview API ---
	var preview *api.Server
	if cfg.API.Enabled {
		preview = api.NewServer(validator, log)
		apiAddr := ":" + strconv.Itoa(cfg.API.Port)
		go func() {
			log.Info("preview api listening", map[string]interface{}{"addr": apiAddr})
			if err := preview.ListenAndServe(apiAddr); err != nil {
				log.Error("preview api failed", map[string]interface{}{"error": err})
			}
		}()
	}

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping workers", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if preview != nil {
		if err := preview.Shutdown(shutdownCtx); err != nil {
			log.Error("preview api shutdown failed", map[string]interface{}{"error": err})
		}
	}
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.Error("health server shutdown failed", map[string]interface{}{"error": err})
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		log.Error("observability shutdown failed", map[string]interface{}{"error": err})
	}
	if err := zeebe.Close(); err != nil {
		log.Error("error closing zeebe client", map[string]interface{}{"error": err})
	}

	log.Info("worker manager stopped", nil)
}

func writeStatus(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
