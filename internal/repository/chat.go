package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmconnect/farmconnect-api/internal/model"
)

type ChatRepository interface {
	EnsureSession(ctx context.Context, sessionID, userIP, userAgent string) error
	SaveMessage(ctx context.Context, sessionID, messageType, message string, responseTimeMs int) error
	History(ctx context.Context, sessionID string, limit int) ([]model.ChatMessage, error)
	MessageCount(ctx context.Context, sessionID string) (int, error)
}

type pgChatRepo struct{ pool *pgxpool.Pool }

func NewChatRepository(pool *pgxpool.Pool) ChatRepository {
	return &pgChatRepo{pool: pool}
}

func (r *pgChatRepo) EnsureSession(ctx context.Context, sessionID, userIP, userAgent string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO chat_sessions (session_id, user_ip, user_agent, created_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (session_id) DO NOTHING`,
		sessionID, userIP, userAgent,
	)
	if err != nil {
		return fmt.Errorf("ensure chat session: %w", err)
	}
	return nil
}

func (r *pgChatRepo) SaveMessage(ctx context.Context, sessionID, messageType, message string, responseTimeMs int) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO chat_messages (session_id, message_type, message, response_time_ms, created_at)
		 VALUES ($1, $2, $3, $4, NOW())`,
		sessionID, messageType, message, responseTimeMs,
	)
	if err != nil {
		return fmt.Errorf("save chat message: %w", err)
	}
	return nil
}

// History returns the newest limit messages in chronological order.
func (r *pgChatRepo) History(ctx context.Context, sessionID string, limit int) ([]model.ChatMessage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, session_id, message_type, message, response_time_ms, created_at
		 FROM (
			SELECT id, session_id, message_type, message, response_time_ms, created_at
			FROM chat_messages WHERE session_id = $1
			ORDER BY created_at DESC LIMIT $2
		 ) recent
		 ORDER BY created_at ASC`,
		sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("chat history: %w", err)
	}
	defer rows.Close()

	var msgs []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.MessageType, &m.Message, &m.ResponseTimeMs, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *pgChatRepo) MessageCount(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM chat_messages WHERE session_id = $1`, sessionID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("chat message count: %w", err)
	}
	return count, nil
}
