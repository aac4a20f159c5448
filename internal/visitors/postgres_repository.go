package visitors

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool the repository needs. It is also
// satisfied by pgxmock pools in tests.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores visitors in the relational database.
type PostgresRepository struct {
	db Querier
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(db Querier) *PostgresRepository {
	if db == nil {
		panic("visitors: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

// Upsert inserts or replaces the row for the visitor's conversation id.
func (r *PostgresRepository) Upsert(ctx context.Context, visitor *Visitor) error {
	if err := visitor.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO visitors (conversation_id, name, email, phone, company, visit_reason, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (conversation_id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			company = EXCLUDED.company,
			visit_reason = EXCLUDED.visit_reason,
			registered_at = EXCLUDED.registered_at
	`
	if _, err := r.db.Exec(ctx, query,
		visitor.ConversationID,
		visitor.Name,
		visitor.Email,
		visitor.Phone,
		visitor.Company,
		visitor.VisitReason,
		visitor.RegisteredAt,
	); err != nil {
		return fmt.Errorf("visitors: upsert failed: %w", err)
	}
	return nil
}

// GetByConversationID fetches a single visitor row.
func (r *PostgresRepository) GetByConversationID(ctx context.Context, conversationID string) (*Visitor, error) {
	query := `
		SELECT conversation_id, name, email, phone, company, visit_reason, registered_at
		FROM visitors
		WHERE conversation_id = $1
	`
	var visitor Visitor
	err := r.db.QueryRow(ctx, query, conversationID).Scan(
		&visitor.ConversationID,
		&visitor.Name,
		&visitor.Email,
		&visitor.Phone,
		&visitor.Company,
		&visitor.VisitReason,
		&visitor.RegisteredAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrVisitorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("visitors: get failed: %w", err)
	}
	return &visitor, nil
}

// List returns all visitor rows, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*Visitor, error) {
	query := `
		SELECT conversation_id, name, email, phone, company, visit_reason, registered_at
		FROM visitors
		ORDER BY registered_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("visitors: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Visitor
	for rows.Next() {
		var visitor Visitor
		if err := rows.Scan(
			&visitor.ConversationID,
			&visitor.Name,
			&visitor.Email,
			&visitor.Phone,
			&visitor.Company,
			&visitor.VisitReason,
			&visitor.RegisteredAt,
		); err != nil {
			return nil, fmt.Errorf("visitors: scan failed: %w", err)
		}
		out = append(out, &visitor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("visitors: iterate failed: %w", err)
	}
	return out, nil
}
