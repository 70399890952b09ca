// Command syncd runs alongside an offline-capable client installation: it
// watches the queued writes under the sync queue directory and replays them
// against the API whenever the backend is reachable.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/attendease/attendease-api/internal/service"
	"github.com/attendease/attendease-api/internal/syncqueue"
	"github.com/attendease/attendease-api/pkg/client"
	"github.com/attendease/attendease-api/pkg/config"
	"github.com/attendease/attendease-api/pkg/logger"
)

func main() {
	baseURL := flag.String("api", "http://localhost:8080", "base URL of the AttendEase API")
	metricsPort := flag.Int("metrics-port", 0, "expose Prometheus metrics on this port (0 disables)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	queues, err := syncqueue.NewManager(cfg.SyncQueue.Dir, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to open sync queue", "dir", cfg.SyncQueue.Dir, "error", err)
	}

	apiClient := client.New(*baseURL, queues, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metricsSvc := service.NewMetricsService()
	if *metricsPort > 0 {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metricsSvc.Handler())
		srv := &http.Server{Addr: fmt.Sprintf(":%d", *metricsPort), Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logr.Sugar().Errorw("metrics server failed", "error", err)
			}
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx) //nolint:errcheck
		}()
	}

	go reportDepth(ctx, queues, metricsSvc, cfg.SyncQueue.FlushInterval)

	logr.Sugar().Infow("sync daemon started",
		"api", *baseURL,
		"dir", cfg.SyncQueue.Dir,
		"interval", cfg.SyncQueue.FlushInterval)
	apiClient.AutoSync(ctx, cfg.SyncQueue.FlushInterval)
}

func reportDepth(ctx context.Context, queues *syncqueue.Manager, metrics *service.MetricsService, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, queue := range syncqueue.FlushOrder {
				depth, err := queues.Pending(queue)
				if err != nil {
					continue
				}
				metrics.SetQueueDepth(queue, depth)
			}
		}
	}
}
