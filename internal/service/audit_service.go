package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"posbackend/internal/model"
	"posbackend/internal/repository"
	"posbackend/internal/websocket"

	"github.com/google/uuid"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

// AuditService records account lifecycle actions and streams them to
// connected admin clients.
type AuditService interface {
	Record(ctx context.Context, actorID *uuid.UUID, action, entityID, entityName string, details any)
	GetAuditLogs(ctx context.Context, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
	hub  *websocket.Hub
}

// NewAuditService creates a new AuditService instance. hub may be nil when no
// event stream is wanted (tests).
func NewAuditService(repo repository.AuditRepository, hub *websocket.Hub) AuditService {
	return &auditService{repo: repo, hub: hub}
}

// Record persists an audit entry and broadcasts it. Auditing is best-effort:
// a failure is logged, never surfaced to the operation being audited.
func (s *auditService) Record(ctx context.Context, actorID *uuid.UUID, action, entityID, entityName string, details any) {
	payload, err := json.Marshal(details)
	if err != nil {
		payload = []byte("{}")
	}

	entry := &model.AuditLog{
		UserID:     actorID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to record %s for %s: %v", action, entityID, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(websocket.Event{
			Action:     action,
			EntityID:   entityID,
			EntityName: entityName,
			At:         time.Now().UTC(),
		})
	}
}

// GetAuditLogs retrieves paginated entries, newest first, with actors preloaded
func (s *auditService) GetAuditLogs(ctx context.Context, page, limit int) ([]AuditLogResponse, int64, error) {
	logs, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		username := "System"
		userID := ""
		if l.User != nil {
			username = l.User.Username
		}
		if l.UserID != nil {
			userID = l.UserID.String()
		}

		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			UserID:     userID,
			Username:   username,
			Action:     l.Action,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return res, total, nil
}
