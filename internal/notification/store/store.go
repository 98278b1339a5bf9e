package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/unimarket/internal/database"
	"github.com/MrJamesThe3rd/unimarket/internal/notification"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Insert writes notifications through q, which may be a transaction owned by
// another store. IDs and creation times are filled in on each notification.
func Insert(ctx context.Context, q database.Querier, ns []*notification.Notification) error {
	query := `
		INSERT INTO notifications (user_id, type, title, message, data, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	for _, n := range ns {
		data, err := json.Marshal(n.Data)
		if err != nil {
			return fmt.Errorf("encoding notification data: %w", err)
		}

		if n.Data == nil {
			data = []byte("{}")
		}

		if err := q.QueryRowContext(ctx, query, n.UserID, n.Type, n.Title, n.Message, data).
			Scan(&n.ID, &n.CreatedAt); err != nil {
			return fmt.Errorf("creating notification: %w", err)
		}
	}

	return nil
}

func (s *Store) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*notification.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, data, is_read, read_at, created_at
		FROM notifications
		WHERE user_id = $1 AND ($2 = FALSE OR is_read = FALSE)
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, query, userID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var ns []*notification.Notification

	for rows.Next() {
		var (
			n       notification.Notification
			typeStr string
			data    []byte
		)

		if err := rows.Scan(&n.ID, &n.UserID, &typeStr, &n.Title, &n.Message, &data, &n.IsRead, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}

		n.Type = notification.Type(typeStr)

		if err := json.Unmarshal(data, &n.Data); err != nil {
			return nil, fmt.Errorf("decoding notification data: %w", err)
		}

		ns = append(ns, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications: %w", err)
	}

	return ns, nil
}

func (s *Store) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = COALESCE(read_at, NOW())
		WHERE id = $1 AND user_id = $2
	`

	res, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}

	if n == 0 {
		return notification.ErrNotFound
	}

	return nil
}
