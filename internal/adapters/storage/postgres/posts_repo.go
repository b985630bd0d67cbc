package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"move-togaether/internal/domain/posts"
)

type PostsRepo struct {
	db *sql.DB
}

func NewPostsRepo(db *sql.DB) *PostsRepo {
	return &PostsRepo{db: db}
}

func (r *PostsRepo) Create(ctx context.Context, p posts.Post) error {
	imgs, err := json.Marshal(urlsOrEmpty(p.ImageURLs))
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO posts (
			id, author_id, title, description,
			departure_address, departure_lat, departure_lng,
			arrival_address, arrival_lat, arrival_lng,
			dog_name, dog_size, dog_breed, dog_age, dog_characteristics,
			image_urls, related_link, deadline, status,
			is_deleted, created_at, updated_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,
			$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22
		)
	`,
		p.ID,
		p.AuthorID,
		p.Title,
		p.Description,
		p.DepartureAddress,
		toNullFloat(p.DepartureLat),
		toNullFloat(p.DepartureLng),
		p.ArrivalAddress,
		toNullFloat(p.ArrivalLat),
		toNullFloat(p.ArrivalLng),
		p.DogName,
		string(p.DogSize),
		p.DogBreed,
		p.DogAge,
		p.DogCharacteristics,
		imgs,
		p.RelatedLink,
		p.Deadline,
		string(p.Status),
		p.IsDeleted,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PostsRepo) Update(ctx context.Context, p posts.Post) error {
	imgs, err := json.Marshal(urlsOrEmpty(p.ImageURLs))
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE posts
		SET
			title = $2,
			description = $3,
			departure_address = $4,
			departure_lat = $5,
			departure_lng = $6,
			arrival_address = $7,
			arrival_lat = $8,
			arrival_lng = $9,
			dog_name = $10,
			dog_size = $11,
			dog_breed = $12,
			dog_age = $13,
			dog_characteristics = $14,
			image_urls = $15,
			related_link = $16,
			deadline = $17,
			status = $18,
			updated_at = $19
		WHERE id = $1 AND NOT is_deleted
	`,
		p.ID,
		p.Title,
		p.Description,
		p.DepartureAddress,
		toNullFloat(p.DepartureLat),
		toNullFloat(p.DepartureLng),
		p.ArrivalAddress,
		toNullFloat(p.ArrivalLat),
		toNullFloat(p.ArrivalLng),
		p.DogName,
		string(p.DogSize),
		p.DogBreed,
		p.DogAge,
		p.DogCharacteristics,
		imgs,
		p.RelatedLink,
		p.Deadline,
		string(p.Status),
		p.UpdatedAt,
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

const postColumns = `
	p.id, p.author_id, p.title, p.description,
	p.departure_address, p.departure_lat, p.departure_lng,
	p.arrival_address, p.arrival_lat, p.arrival_lng,
	p.dog_name, p.dog_size, p.dog_breed, p.dog_age, p.dog_characteristics,
	p.image_urls, p.related_link, p.deadline, p.status,
	p.is_deleted, p.created_at, p.updated_at
`

func (r *PostsRepo) GetByID(ctx context.Context, id string) (posts.Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return posts.Post{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		WHERE p.id = $1 AND NOT p.is_deleted
	`, id)

	p, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return posts.Post{}, ErrNotFound
		}
		return posts.Post{}, err
	}
	return p, nil
}

func (r *PostsRepo) List(ctx context.Context, f posts.ListFilter) ([]posts.Summary, int, error) {
	where := `NOT p.is_deleted`
	args := []any{}

	if f.Status != "" {
		args = append(args, string(f.Status))
		where += fmt.Sprintf(` AND p.status = $%d`, len(args))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		where += fmt.Sprintf(` AND (p.title ILIKE $%d OR p.description ILIKE $%d)`, len(args), len(args))
	}
	if ds := strings.TrimSpace(f.DogSize); ds != "" {
		args = append(args, ds)
		where += fmt.Sprintf(` AND p.dog_size = $%d`, len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM posts p WHERE `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.Limit
	args = append(args, f.Limit, offset)

	// Phone joins as empty unless the author opted in.
	q := fmt.Sprintf(`
		SELECT `+postColumns+`,
			pr.nickname,
			CASE WHEN pr.phone_visible THEN pr.phone ELSE '' END,
			0, 0
		FROM posts p
		JOIN profiles pr ON pr.id = p.author_id
		WHERE %s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	return r.querySummaries(ctx, q, args, total)
}

func (r *PostsRepo) ListByAuthor(ctx context.Context, authorID string, status posts.Status, page, limit int) ([]posts.Summary, int, error) {
	where := `NOT p.is_deleted AND p.author_id = $1`
	args := []any{authorID}

	if status != "" {
		args = append(args, string(status))
		where += fmt.Sprintf(` AND p.status = $%d`, len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM posts p WHERE `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	args = append(args, limit, offset)

	q := fmt.Sprintf(`
		SELECT `+postColumns+`,
			pr.nickname,
			CASE WHEN pr.phone_visible THEN pr.phone ELSE '' END,
			(SELECT count(*) FROM applications a WHERE a.post_id = p.id AND NOT a.is_deleted),
			(SELECT count(*) FROM favorites f WHERE f.post_id = p.id)
		FROM posts p
		JOIN profiles pr ON pr.id = p.author_id
		WHERE %s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	return r.querySummaries(ctx, q, args, total)
}

// RankByDistance: haversine over the departure point, ascending. The math
// lives in SQL so the store does the sort; only active posts with
// coordinates qualify.
func (r *PostsRepo) RankByDistance(ctx context.Context, lat, lng float64, page, limit int) ([]posts.Ranked, error) {
	offset := (page - 1) * limit

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+postColumns+`,
			pr.nickname,
			CASE WHEN pr.phone_visible THEN pr.phone ELSE '' END,
			6371 * 2 * asin(sqrt(
				power(sin(radians(p.departure_lat - $1) / 2), 2) +
				cos(radians($1)) * cos(radians(p.departure_lat)) *
				power(sin(radians(p.departure_lng - $2) / 2), 2)
			)) AS distance_km
		FROM posts p
		JOIN profiles pr ON pr.id = p.author_id
		WHERE NOT p.is_deleted
		  AND p.status = 'active'
		  AND p.departure_lat IS NOT NULL
		  AND p.departure_lng IS NOT NULL
		ORDER BY distance_km ASC
		LIMIT $3 OFFSET $4
	`, lat, lng, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]posts.Ranked, 0)
	for rows.Next() {
		var rk posts.Ranked
		var err error
		rk.Summary, err = scanSummaryWith(rows, &rk.DistanceKM)
		if err != nil {
			return nil, err
		}
		out = append(out, rk)
	}

	return out, rows.Err()
}

func (r *PostsRepo) BeginTransport(ctx context.Context, id string, at time.Time) error {
	// Conditional by design: zero rows means the post already moved on.
	_, err := r.db.ExecContext(ctx, `
		UPDATE posts
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4 AND NOT is_deleted
	`, id, string(posts.StatusInProgress), at, string(posts.StatusActive))
	return err
}

func (r *PostsRepo) querySummaries(ctx context.Context, q string, args []any, total int) ([]posts.Summary, int, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]posts.Summary, 0)
	for rows.Next() {
		s, err := scanSummaryWith(rows, nil)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}

	return out, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (posts.Post, error) {
	var p posts.Post
	var depLat, depLng, arrLat, arrLng sql.NullFloat64
	var imgs []byte
	var size, status string

	if err := row.Scan(
		&p.ID,
		&p.AuthorID,
		&p.Title,
		&p.Description,
		&p.DepartureAddress,
		&depLat,
		&depLng,
		&p.ArrivalAddress,
		&arrLat,
		&arrLng,
		&p.DogName,
		&size,
		&p.DogBreed,
		&p.DogAge,
		&p.DogCharacteristics,
		&imgs,
		&p.RelatedLink,
		&p.Deadline,
		&status,
		&p.IsDeleted,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return posts.Post{}, err
	}

	p.DogSize = posts.DogSize(size)
	p.Status = posts.Status(status)
	p.DepartureLat = fromNullFloat(depLat)
	p.DepartureLng = fromNullFloat(depLng)
	p.ArrivalLat = fromNullFloat(arrLat)
	p.ArrivalLng = fromNullFloat(arrLng)

	if len(imgs) > 0 {
		if err := json.Unmarshal(imgs, &p.ImageURLs); err != nil {
			return posts.Post{}, err
		}
	}

	return p, nil
}

// scanSummaryWith scans postColumns + joined author fields + counts, and
// optionally a trailing distance column.
func scanSummaryWith(row rowScanner, distance *float64) (posts.Summary, error) {
	var s posts.Summary
	var depLat, depLng, arrLat, arrLng sql.NullFloat64
	var imgs []byte
	var size, status string

	dest := []any{
		&s.ID,
		&s.AuthorID,
		&s.Title,
		&s.Description,
		&s.DepartureAddress,
		&depLat,
		&depLng,
		&s.ArrivalAddress,
		&arrLat,
		&arrLng,
		&s.DogName,
		&size,
		&s.DogBreed,
		&s.DogAge,
		&s.DogCharacteristics,
		&imgs,
		&s.RelatedLink,
		&s.Deadline,
		&status,
		&s.IsDeleted,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.AuthorNickname,
		&s.AuthorPhone,
	}
	if distance != nil {
		dest = append(dest, distance)
	} else {
		dest = append(dest, &s.ApplicationCount, &s.FavoriteCount)
	}

	if err := row.Scan(dest...); err != nil {
		return posts.Summary{}, err
	}

	s.DogSize = posts.DogSize(size)
	s.Status = posts.Status(status)
	s.DepartureLat = fromNullFloat(depLat)
	s.DepartureLng = fromNullFloat(depLng)
	s.ArrivalLat = fromNullFloat(arrLat)
	s.ArrivalLng = fromNullFloat(arrLng)

	if len(imgs) > 0 {
		if err := json.Unmarshal(imgs, &s.ImageURLs); err != nil {
			return posts.Summary{}, err
		}
	}

	return s, nil
}

func urlsOrEmpty(urls []string) []string {
	if urls == nil {
		return []string{}
	}
	return urls
}

func toNullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func fromNullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
