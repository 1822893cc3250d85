package store

import (
	"ossmanager_go/models"

	"github.com/sirupsen/logrus"
)

// AuditLogger appends immutable log entries to the snapshot's log
// collection. It is used for standalone actions (logins, kiosk
// session events); domain operations append their entry inside their
// own Apply so the mutation and its log record commit atomically.
type AuditLogger struct {
	store *Store
}

// NewAuditLogger wraps the given store.
func NewAuditLogger(s *Store) *AuditLogger {
	return &AuditLogger{store: s}
}

// Record appends one log entry attributed to userID. Unknown or
// dangling user ids are stored as-is; resolution to a display name
// happens at render time.
func (l *AuditLogger) Record(action, userID string) error {
	if userID == "" {
		userID = models.SystemUserID
	}
	_, err := l.store.Apply(func(snap models.Snapshot) (models.Snapshot, error) {
		snap.Logs = append(snap.Logs, models.NewLogEntry(action, userID))
		return snap, nil
	})
	if err != nil {
		logrus.WithError(err).WithField("action", action).Error("Failed to record audit entry")
	}
	return err
}
