package production

import (
	"context"
	"time"

	"github.com/bewloop/quark-system/internal/domain/production"
	"github.com/google/uuid"
)

// AuditLogger appends one immutable history entry per accepted transition.
// It must be called with the transaction context of the status update.
type AuditLogger struct {
	logs production.StatusLogRepository
	now  func() time.Time
}

// NewAuditLogger creates a new AuditLogger
func NewAuditLogger(logs production.StatusLogRepository) *AuditLogger {
	return &AuditLogger{logs: logs, now: time.Now}
}

// Record writes the entry for status reached by orderID, acted by userID
func (a *AuditLogger) Record(ctx context.Context, orderID uuid.UUID, status production.Status, userID uuid.UUID) (*production.StatusLogEntry, error) {
	entry := production.NewStatusLogEntry(orderID, status, userID, a.now().UTC())
	if err := a.logs.Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
