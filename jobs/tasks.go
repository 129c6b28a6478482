package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeReportsWarmup pre-populates the billing report caches.
	TaskTypeReportsWarmup = "reports:warmup"
	// TaskTypeOverdueScan finds pending invoices past their deadline and
	// queues payment reminders.
	TaskTypeOverdueScan = "billing:overdue_scan"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// HandleSendEmailTask processes TaskTypeSendEmail tasks.
func HandleSendEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	// Placeholder: integrate with SMTP once the relay is provisioned.
	fmt.Printf("[jobs] send email to %s subject=%s\n", payload.To, payload.Subject)
	return nil
}

// ReportsWarmupPayload selects which owners get their caches warmed.
type ReportsWarmupPayload struct {
	// Scope is "active" (owners with documents this year) or "all".
	Scope string `json:"scope"`
}

// NewReportsWarmupTask constructs the warmup task.
func NewReportsWarmupTask(scope string) (*asynq.Task, error) {
	data, err := json.Marshal(ReportsWarmupPayload{Scope: scope})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeReportsWarmup, data), nil
}

// OverdueScanPayload tunes the reminder scan.
type OverdueScanPayload struct {
	// GraceDays delays reminders for invoices only just past the deadline.
	GraceDays int `json:"grace_days"`
}

// NewOverdueScanTask constructs the overdue-invoice scan task.
func NewOverdueScanTask(graceDays int) (*asynq.Task, error) {
	data, err := json.Marshal(OverdueScanPayload{GraceDays: graceDays})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeOverdueScan, data), nil
}
