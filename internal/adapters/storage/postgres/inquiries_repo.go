package postgres

import (
	"context"
	"database/sql"

	"move-togaether/internal/domain/inquiries"
)

type InquiriesRepo struct {
	db *sql.DB
}

func NewInquiriesRepo(db *sql.DB) *InquiriesRepo {
	return &InquiriesRepo{db: db}
}

func (r *InquiriesRepo) Create(ctx context.Context, q inquiries.Inquiry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inquiries (
			id, post_id, profile_id, message, status,
			is_deleted, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		q.ID,
		q.PostID,
		q.ProfileID,
		q.Message,
		string(q.Status),
		q.IsDeleted,
		q.CreatedAt,
		q.UpdatedAt,
	)
	return err
}

func (r *InquiriesRepo) ListByProfile(ctx context.Context, profileID, postID string) ([]inquiries.Detail, error) {
	query := `
		SELECT q.id, q.post_id, q.profile_id, q.message, q.status,
			q.is_deleted, q.created_at, q.updated_at,
			p.title
		FROM inquiries q
		JOIN posts p ON p.id = q.post_id
		WHERE q.profile_id = $1 AND NOT q.is_deleted`
	args := []any{profileID}
	if postID != "" {
		query += ` AND q.post_id = $2`
		args = append(args, postID)
	}
	query += ` ORDER BY q.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]inquiries.Detail, 0)
	for rows.Next() {
		var d inquiries.Detail
		var status string
		if err := rows.Scan(
			&d.ID,
			&d.PostID,
			&d.ProfileID,
			&d.Message,
			&status,
			&d.IsDeleted,
			&d.CreatedAt,
			&d.UpdatedAt,
			&d.PostTitle,
		); err != nil {
			return nil, err
		}
		d.Status = inquiries.Status(status)
		out = append(out, d)
	}
	return out, rows.Err()
}
