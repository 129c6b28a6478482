package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline-erp/ledgerline/internal/reports"
)

// ReportsWarmupJob pre-populates the cashflow and pending-payments caches
// for every owner company, so the first morning request is already warm.
type ReportsWarmupJob struct {
	Reports *reports.Service
	Pool    *pgxpool.Pool
	Logger  *slog.Logger
	clock   func() time.Time
}

// NewReportsWarmupJob wires dependencies for the warmup handler.
func NewReportsWarmupJob(reportsSvc *reports.Service, pool *pgxpool.Pool, logger *slog.Logger) *ReportsWarmupJob {
	return &ReportsWarmupJob{
		Reports: reportsSvc,
		Pool:    pool,
		Logger:  logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes report warmup tasks.
func (j *ReportsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("reports warmup: handler not configured")
	}
	var payload ReportsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Scope == "" {
		payload.Scope = "active"
	}

	logger := j.logger().With(slog.String("scope", payload.Scope))
	logger.Info("starting reports warmup")

	now := j.now()
	owners, err := j.fetchOwners(ctx, payload.Scope, now)
	if err != nil {
		logger.Error("load warmup owners", slog.Any("error", err))
		return err
	}
	if len(owners) == 0 {
		logger.Info("no owners discovered for warmup")
		return nil
	}

	warmed := 0
	for _, ownerID := range owners {
		if err := j.warmOwner(ctx, ownerID, now); err != nil {
			logger.Error("warm owner", slog.Int64("owner_id", ownerID), slog.Any("error", err))
			return err
		}
		warmed++
	}

	logger.Info("completed reports warmup", slog.Int("owners", warmed), slog.Duration("duration", time.Since(now)))
	return nil
}

func (j *ReportsWarmupJob) warmOwner(ctx context.Context, ownerID int64, now time.Time) error {
	if j.Reports == nil {
		return nil
	}
	ownerCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	if _, err := j.Reports.Cashflow(ownerCtx, ownerID, now.Year()); err != nil {
		return err
	}
	_, err := j.Reports.PendingPayments(ownerCtx, ownerID)
	return err
}

func (j *ReportsWarmupJob) fetchOwners(ctx context.Context, scope string, now time.Time) ([]int64, error) {
	if j.Pool == nil {
		return nil, errors.New("reports warmup: pool not configured")
	}
	query := "SELECT DISTINCT owner_id FROM documents ORDER BY owner_id"
	args := []interface{}{}
	if scope == "active" {
		query = "SELECT DISTINCT owner_id FROM documents WHERE doc_date >= $1 ORDER BY owner_id"
		args = append(args, now.AddDate(-1, 0, 0))
	}

	rows, err := j.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var owners []int64
	for rows.Next() {
		var ownerID int64
		if err := rows.Scan(&ownerID); err != nil {
			return nil, err
		}
		owners = append(owners, ownerID)
	}
	return owners, rows.Err()
}

func (j *ReportsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeReportsWarmup))
	}
	return slog.Default().With(slog.String("job", TaskTypeReportsWarmup))
}

func (j *ReportsWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
