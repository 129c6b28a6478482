package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OverdueScanJob finds pending customer invoices whose deadline has passed
// and queues one reminder email per invoice.
type OverdueScanJob struct {
	Pool   *pgxpool.Pool
	Client *Client
	Logger *slog.Logger
	clock  func() time.Time
}

// NewOverdueScanJob wires dependencies for the scan handler.
func NewOverdueScanJob(pool *pgxpool.Pool, client *Client, logger *slog.Logger) *OverdueScanJob {
	return &OverdueScanJob{
		Pool:   pool,
		Client: client,
		Logger: logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

type overdueInvoice struct {
	docNumber string
	email     string
	name      string
	toPay     float64
	currency  string
	deadline  time.Time
}

// Handle processes overdue-scan tasks.
func (j *OverdueScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("overdue scan: handler not configured")
	}
	var payload OverdueScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	now := j.now()
	cutoff := now.AddDate(0, 0, -payload.GraceDays)
	logger := j.logger()
	logger.Info("starting overdue scan", slog.Time("cutoff", cutoff))

	invoices, err := j.fetchOverdue(ctx, cutoff)
	if err != nil {
		logger.Error("load overdue invoices", slog.Any("error", err))
		return err
	}

	queued := 0
	for _, inv := range invoices {
		if inv.email == "" {
			continue
		}
		mail := SendEmailPayload{
			To:      inv.email,
			Subject: fmt.Sprintf("Payment reminder for invoice %s", inv.docNumber),
			Body: fmt.Sprintf("Dear %s, invoice %s for %.2f %s was due on %s and is still unpaid.",
				inv.name, inv.docNumber, inv.toPay, inv.currency, inv.deadline.Format("2006-01-02")),
		}
		if _, err := j.Client.EnqueueSendEmail(ctx, mail); err != nil {
			logger.Error("queue reminder", slog.String("doc_number", inv.docNumber), slog.Any("error", err))
			return err
		}
		queued++
	}

	logger.Info("completed overdue scan", slog.Int("invoices", len(invoices)), slog.Int("reminders", queued))
	return nil
}

func (j *OverdueScanJob) fetchOverdue(ctx context.Context, cutoff time.Time) ([]overdueInvoice, error) {
	if j.Pool == nil {
		return nil, errors.New("overdue scan: pool not configured")
	}
	rows, err := j.Pool.Query(ctx, `
		SELECT d.doc_number, COALESCE(c.email, ''), c.name, d.total_to_pay, d.currency, d.deadline
		FROM documents d
		JOIN customers c ON c.owner_id = d.owner_id AND c.company_id = d.company_id
		WHERE d.doc_type = 'CUSTOMER_INVOICE'
			AND d.status = 'PENDING'
			AND d.deadline < $1
		ORDER BY d.deadline, d.id
	`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []overdueInvoice
	for rows.Next() {
		var (
			inv      overdueInvoice
			toPay    pgtype.Numeric
			deadline pgtype.Date
		)
		if err := rows.Scan(&inv.docNumber, &inv.email, &inv.name, &toPay, &inv.currency, &deadline); err != nil {
			return nil, err
		}
		if toPay.Valid {
			f, _ := toPay.Float64Value()
			inv.toPay = f.Float64
		}
		if deadline.Valid {
			inv.deadline = deadline.Time
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (j *OverdueScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeOverdueScan))
	}
	return slog.Default().With(slog.String("job", TaskTypeOverdueScan))
}

func (j *OverdueScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
