package services

import (
	"ossmanager_go/models"
	"ossmanager_go/store"

	"ossmanager_go/services/websocket"
)

// AcademyService is the closed set of domain operations every feature
// surface goes through. Each operation is exactly one store.Apply:
// it validates against the snapshot it was handed, mutates, and
// appends its single audit entry, so failures are all-or-nothing and
// never write a log record.
type AcademyService struct {
	store *store.Store
	hub   *websocket.Hub
}

// NewAcademyService builds a service over the given snapshot store.
func NewAcademyService(st *store.Store) *AcademyService {
	return &AcademyService{store: st}
}

// SetWebSocketHub wires the live check-in feed. Optional; operations
// work without it.
func (s *AcademyService) SetWebSocketHub(hub *websocket.Hub) {
	s.hub = hub
}

// Snapshot returns a read-only copy of the current state for
// rendering.
func (s *AcademyService) Snapshot() models.Snapshot {
	return s.store.View()
}

// actorOrSystem normalizes the acting user id for audit entries.
func actorOrSystem(actorID string) string {
	if actorID == "" {
		return models.SystemUserID
	}
	return actorID
}
