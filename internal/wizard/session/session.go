package session

import (
	"context"
	"time"

	"korskola/internal/wizard/core"
	"korskola/pkg/model"
)

// Session is one user's run through the wizard. OwnerID is empty for
// anonymous visitors, whose unguessable session id is their only credential.
type Session struct {
	ID        string      `json:"id"`
	OwnerID   string      `json:"owner_id,omitempty"`
	Step      core.Step   `json:"step"`
	Draft     model.Draft `json:"draft"`
	Version   int64       `json:"version"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// OwnedBy reports whether user may act on s.
func (s *Session) OwnedBy(user *model.ActingUser) bool {
	if user == nil {
		return s.OwnerID == ""
	}
	return s.OwnerID == user.ID
}

// Store keeps sessions between requests. Save succeeds only when the stored
// version equals s.Version; it then increments s.Version.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	Stop()
}
