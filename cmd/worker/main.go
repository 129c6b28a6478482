package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/ledgerline-erp/ledgerline/internal/app"
	"github.com/ledgerline-erp/ledgerline/internal/platform/cache"
	"github.com/ledgerline-erp/ledgerline/internal/platform/db"
	"github.com/ledgerline-erp/ledgerline/internal/reports"
	"github.com/ledgerline-erp/ledgerline/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	reportCache := reports.NewCache(redisClient, cfg.ReportsTTL)
	reportService := reports.NewService(pool, reportCache)

	client, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init queue client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("queue client close", slog.Any("error", err))
		}
	}()

	warmupJob := jobs.NewReportsWarmupJob(reportService, pool, logger)
	overdueJob := jobs.NewOverdueScanJob(pool, client, logger)

	warmupTask, err := jobs.NewReportsWarmupTask("active")
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}
	overdueTask, err := jobs.NewOverdueScanTask(3)
	if err != nil {
		logger.Error("build overdue task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeReportsWarmup, Handler: warmupJob.Handle},
			{Type: jobs.TaskTypeOverdueScan, Handler: overdueJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "15 1 * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "0 8 * * *", Task: overdueTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
