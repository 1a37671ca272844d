// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"brandscore-workers/internal/common/camunda"
	"brandscore-workers/internal/common/config"
	"brandscore-workers/internal/common/database"
	"brandscore-workers/internal/common/logger"
	"brandscore-workers/internal/common/observability"
	"brandscore-workers/internal/embedding"
	"brandscore-workers/internal/retrieval"
	"brandscore-workers/internal/scoring"
	"brandscore-workers/internal/store"

	at "brandscore-workers/internal/workers/content/analyze-theme"
	rc "brandscore-workers/internal/workers/content/rank-content"
	rbc "brandscore-workers/internal/workers/content/retrieve-brand-context"
	vc "brandscore-workers/internal/workers/content/validate-content"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Shared scoring infrastructure ---
	contents := store.NewContentStore(pg.DB, log)
	projects := store.NewProjectStore(pg.DB, log)
	embeddings := store.NewEmbeddingStore(
		pg.DB,
		redis.GetClient(),
		time.Duration(cfg.Embedding.CacheTTL)*time.Second,
		log,
	)

	provider := embedding.NewProvider(cfg.Embedding, log)
	engine := scoring.NewEngine(provider, embeddings, log)
	retriever := retrieval.NewRetriever(provider, embeddings, log)

	zapLog.Info("Scoring infrastructure initialized",
		zap.Bool("remoteEmbedding", cfg.Embedding.Enabled),
		zap.Int("dimension", cfg.Embedding.Dimension),
	)

	// --- Register Workers ---
	if cfg.Workers[vc.TaskType].Enabled {
		handler := vc.NewHandler(
			&vc.Config{
				Timeout: time.Duration(cfg.Workers[vc.TaskType].Timeout) * time.Millisecond,
			},
			contents, projects, engine, log,
		)
		startWorker(zeebeClient, vc.TaskType, cfg.Workers[vc.TaskType], handler, zapLog)
	}

	if cfg.Workers[rc.TaskType].Enabled {
		handler := rc.NewHandler(
			&rc.Config{
				Timeout:        time.Duration(cfg.Workers[rc.TaskType].Timeout) * time.Millisecond,
				MaxConcurrency: cfg.Workers[rc.TaskType].Concurrency,
			},
			contents, projects, engine, log,
		)
		startWorker(zeebeClient, rc.TaskType, cfg.Workers[rc.TaskType], handler, zapLog)
	}

	if cfg.Workers[at.TaskType].Enabled {
		handler := at.NewHandler(
			&at.Config{
				Timeout: time.Duration(cfg.Workers[at.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		startWorker(zeebeClient, at.TaskType, cfg.Workers[at.TaskType], handler, zapLog)
	}

	if cfg.Workers[rbc.TaskType].Enabled {
		handler := rbc.NewHandler(
			&rbc.Config{
				Timeout:     time.Duration(cfg.Workers[rbc.TaskType].Timeout) * time.Millisecond,
				DefaultTopK: 5,
			},
			contents, projects, provider, retriever, log,
		)
		startWorker(zeebeClient, rbc.TaskType, cfg.Workers[rbc.TaskType], handler, zapLog)
	}

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := camundaClient.HealthCheck(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, w := range runningWorkers {
		w.Stop(shutdownCtx)
	}

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

var runningWorkers []*camunda.Worker

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler camunda.JobHandler, log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	runningWorkers = append(runningWorkers, camunda.NewWorker(client, taskType, wcfg, handler, log))
}
