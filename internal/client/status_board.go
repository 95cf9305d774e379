package client

import (
	"context"
	"log/slog"
	"sync"
)

// StatusBoard is an employer's applicant list for one job. Status changes
// show immediately and are written to the API in the background; a failed
// write is logged and reported but the row keeps the new status.
type StatusBoard struct {
	client *Client
	logger *slog.Logger
	alert  func(applicationID string, err error)

	mu   sync.Mutex
	rows []Application
	wg   sync.WaitGroup
}

// NewStatusBoard creates a board over rows. alert may be nil.
func NewStatusBoard(c *Client, rows []Application, logger *slog.Logger, alert func(applicationID string, err error)) *StatusBoard {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusBoard{
		client: c,
		logger: logger,
		alert:  alert,
		rows:   append([]Application(nil), rows...),
	}
}

// LoadStatusBoard fetches the applicants of jobID into a new board.
func LoadStatusBoard(ctx context.Context, c *Client, jobID string, logger *slog.Logger, alert func(string, error)) (*StatusBoard, error) {
	rows, err := c.JobApplications(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return NewStatusBoard(c, rows, logger, alert), nil
}

// Rows returns a copy of the current rows.
func (b *StatusBoard) Rows() []Application {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Application(nil), b.rows...)
}

// ChangeStatus sets the row's status and starts the write. It reports false
// when the board has no such application.
func (b *StatusBoard) ChangeStatus(ctx context.Context, applicationID, status string) bool {
	b.mu.Lock()
	found := false
	for i := range b.rows {
		if b.rows[i].ID == applicationID {
			b.rows[i].Status = status
			found = true
			break
		}
	}
	b.mu.Unlock()
	if !found {
		return false
	}

	ctx = context.WithoutCancel(ctx)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if _, err := b.client.UpdateStatus(ctx, applicationID, status); err != nil {
			b.logger.Error("update application status",
				"application_id", applicationID,
				"status", status,
				"error", err,
			)
			if b.alert != nil {
				b.alert(applicationID, err)
			}
		}
	}()
	return true
}

// Wait blocks until every started write has finished.
func (b *StatusBoard) Wait() {
	b.wg.Wait()
}
