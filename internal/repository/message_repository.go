package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Kali2114/ZenithFlowAPI/internal/model"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	ListInbox(ctx context.Context, userID uuid.UUID) ([]model.Message, error)
	ListSent(ctx context.Context, userID uuid.UUID) ([]model.Message, error)
	MarkRead(ctx context.Context, messageID, receiverID uuid.UUID) (bool, error)
}

type postgresMessageRepository struct {
	db *sqlx.DB
}

func NewPostgresMessageRepository(db *sqlx.DB) MessageRepository {
	return &postgresMessageRepository{db: db}
}

func (r *postgresMessageRepository) Create(ctx context.Context, msg *model.Message) error {
	query := `
		INSERT INTO messages (sender_id, receiver_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, sent_at
	`
	row := r.db.QueryRowxContext(ctx, query, msg.SenderID, msg.ReceiverID, msg.Content)
	return row.Scan(&msg.ID, &msg.SentAt)
}

func (r *postgresMessageRepository) ListInbox(ctx context.Context, userID uuid.UUID) ([]model.Message, error) {
	var messages []model.Message
	query := `
		SELECT id, sender_id, receiver_id, content, is_read, sent_at
		FROM messages
		WHERE receiver_id = $1
		ORDER BY sent_at DESC
	`
	err := r.db.SelectContext(ctx, &messages, query, userID)

	if messages == nil {
		messages = []model.Message{}
	}

	return messages, err
}

func (r *postgresMessageRepository) ListSent(ctx context.Context, userID uuid.UUID) ([]model.Message, error) {
	var messages []model.Message
	query := `
		SELECT id, sender_id, receiver_id, content, is_read, sent_at
		FROM messages
		WHERE sender_id = $1
		ORDER BY sent_at DESC
	`
	err := r.db.SelectContext(ctx, &messages, query, userID)

	if messages == nil {
		messages = []model.Message{}
	}

	return messages, err
}

// MarkRead flips the flag only for the message's receiver and reports whether
// a row matched.
func (r *postgresMessageRepository) MarkRead(ctx context.Context, messageID, receiverID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE messages SET is_read = TRUE WHERE id = $1 AND receiver_id = $2`,
		messageID, receiverID,
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}
