package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"move-togaether/internal/domain/shelters"
)

type SheltersRepo struct {
	db *sql.DB
}

func NewSheltersRepo(db *sql.DB) *SheltersRepo {
	return &SheltersRepo{db: db}
}

func (r *SheltersRepo) Create(ctx context.Context, s shelters.Shelter) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shelters (
			id, creator_id, name, description, phone,
			open_chat_url, address, verified,
			is_deleted, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		s.ID,
		s.CreatorID,
		s.Name,
		s.Description,
		s.Phone,
		s.OpenChatURL,
		s.Address,
		s.Verified,
		s.IsDeleted,
		s.CreatedAt,
		s.UpdatedAt,
	)
	return err
}

func (r *SheltersRepo) Update(ctx context.Context, s shelters.Shelter) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE shelters
		SET
			name = $2,
			description = $3,
			phone = $4,
			open_chat_url = $5,
			address = $6,
			updated_at = $7
		WHERE id = $1 AND NOT is_deleted
	`,
		s.ID,
		s.Name,
		s.Description,
		s.Phone,
		s.OpenChatURL,
		s.Address,
		s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SheltersRepo) GetByID(ctx context.Context, id string) (shelters.Shelter, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return shelters.Shelter{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, creator_id, name, description, phone,
			open_chat_url, address, verified,
			is_deleted, created_at, updated_at
		FROM shelters
		WHERE id = $1 AND NOT is_deleted
	`, id)

	var s shelters.Shelter
	if err := row.Scan(
		&s.ID,
		&s.CreatorID,
		&s.Name,
		&s.Description,
		&s.Phone,
		&s.OpenChatURL,
		&s.Address,
		&s.Verified,
		&s.IsDeleted,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return shelters.Shelter{}, ErrNotFound
		}
		return shelters.Shelter{}, err
	}

	return s, nil
}

func (r *SheltersRepo) List(ctx context.Context, f shelters.ListFilter) ([]shelters.Shelter, int, error) {
	where := `NOT is_deleted`
	args := []any{}

	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		where += ` AND (name ILIKE $1 OR description ILIKE $1)`
	}
	if f.VerifiedOnly {
		where += ` AND verified`
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM shelters WHERE `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.Limit
	args = append(args, f.Limit, offset)

	q := fmt.Sprintf(`
		SELECT
			id, creator_id, name, description, phone,
			open_chat_url, address, verified,
			is_deleted, created_at, updated_at
		FROM shelters
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]shelters.Shelter, 0)
	for rows.Next() {
		var s shelters.Shelter
		if err := rows.Scan(
			&s.ID,
			&s.CreatorID,
			&s.Name,
			&s.Description,
			&s.Phone,
			&s.OpenChatURL,
			&s.Address,
			&s.Verified,
			&s.IsDeleted,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}

	return out, total, rows.Err()
}
