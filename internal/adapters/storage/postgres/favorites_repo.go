package postgres

import (
	"context"
	"database/sql"

	"move-togaether/internal/domain/favorites"
)

type FavoritesRepo struct {
	db *sql.DB
}

func NewFavoritesRepo(db *sql.DB) *FavoritesRepo {
	return &FavoritesRepo{db: db}
}

func (r *FavoritesRepo) Create(ctx context.Context, f favorites.Favorite) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO favorites (id, profile_id, post_id, created_at)
		VALUES ($1,$2,$3,$4)
	`,
		f.ID,
		f.ProfileID,
		f.PostID,
		f.CreatedAt,
	)
	return err
}

func (r *FavoritesRepo) GetByProfileAndPost(ctx context.Context, profileID, postID string) (favorites.Favorite, error) {
	var f favorites.Favorite
	err := r.db.QueryRowContext(ctx, `
		SELECT id, profile_id, post_id, created_at
		FROM favorites
		WHERE profile_id = $1 AND post_id = $2
	`, profileID, postID).Scan(&f.ID, &f.ProfileID, &f.PostID, &f.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return favorites.Favorite{}, ErrNotFound
		}
		return favorites.Favorite{}, err
	}
	return f, nil
}

func (r *FavoritesRepo) ListByProfile(ctx context.Context, profileID string) ([]favorites.Detail, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT f.id, f.profile_id, f.post_id, f.created_at,
			p.title, p.status, p.dog_name, p.dog_size, p.deadline
		FROM favorites f
		JOIN posts p ON p.id = f.post_id
		WHERE f.profile_id = $1 AND NOT p.is_deleted
		ORDER BY f.created_at DESC
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]favorites.Detail, 0)
	for rows.Next() {
		var d favorites.Detail
		if err := rows.Scan(
			&d.ID,
			&d.ProfileID,
			&d.PostID,
			&d.CreatedAt,
			&d.PostTitle,
			&d.PostStatus,
			&d.PostDogName,
			&d.PostDogSize,
			&d.PostDeadline,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
