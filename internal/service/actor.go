package service

import (
	"errors"
	"log/slog"

	"staffadmin/internal/permission"
	"staffadmin/internal/repository"
	"staffadmin/internal/session"
	"staffadmin/pkg/apperror"
)

// Actor is the signed-in user an operation runs on behalf of.
type Actor struct {
	UserID      uint
	Username    string
	Role        string
	Permissions *permission.Document
}

// ActorFromSession converts a validated session payload.
func ActorFromSession(p *session.Payload) *Actor {
	if p == nil {
		return nil
	}
	return &Actor{UserID: p.UserID, Username: p.Username, Role: p.Role, Permissions: p.Permissions}
}

func (a *Actor) userID() *uint {
	if a == nil || a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}

// Change event types published to connected clients.
const (
	EventRoleCreated = "role.created"
	EventRoleUpdated = "role.updated"
	EventRoleDeleted = "role.deleted"
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// Notifier receives change events after a mutation commits.
type Notifier interface {
	Publish(eventType string, id uint)
}

type noopNotifier struct{}

func (noopNotifier) Publish(string, uint) {}

func notifierOrNoop(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

// internalError logs err and returns a client-safe 500.
func internalError(msg string, err error) error {
	slog.Error(msg, "error", err)
	return apperror.NewInternal("Internal server error").Wrap(err)
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
