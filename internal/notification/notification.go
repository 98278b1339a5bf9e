package notification

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("notification not found")

// Type groups notifications in the inbox.
type Type string

const (
	TypeTransaction Type = "TRANSACTION"
	TypeListing     Type = "LISTING"
	TypeDispute     Type = "DISPUTE"
)

// Notification is an inbox entry for a single user.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      Type
	Title     string
	Message   string
	Data      map[string]string
	IsRead    bool
	ReadAt    *time.Time
	CreatedAt time.Time
}

func New(userID uuid.UUID, typ Type, title, message string, data map[string]string) *Notification {
	return &Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
		Data:    data,
	}
}
