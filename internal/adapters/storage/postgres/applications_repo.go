package postgres

import (
	"context"
	"database/sql"
	"strings"

	"move-togaether/internal/domain/applications"
)

type ApplicationsRepo struct {
	db *sql.DB
}

func NewApplicationsRepo(db *sql.DB) *ApplicationsRepo {
	return &ApplicationsRepo{db: db}
}

func (r *ApplicationsRepo) Create(ctx context.Context, a applications.Application) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO applications (
			id, post_id, applicant_id, status, message,
			is_deleted, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		a.ID,
		a.PostID,
		a.ApplicantID,
		string(a.Status),
		a.Message,
		a.IsDeleted,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func (r *ApplicationsRepo) Update(ctx context.Context, a applications.Application) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE applications
		SET status = $2, message = $3, updated_at = $4
		WHERE id = $1 AND NOT is_deleted
	`,
		a.ID,
		string(a.Status),
		a.Message,
		a.UpdatedAt,
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

func (r *ApplicationsRepo) GetByID(ctx context.Context, id string) (applications.Application, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return applications.Application{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, post_id, applicant_id, status, message,
			is_deleted, created_at, updated_at
		FROM applications
		WHERE id = $1 AND NOT is_deleted
	`, id)

	return scanApplication(row)
}

func (r *ApplicationsRepo) GetByPostAndApplicant(ctx context.Context, postID, applicantID string) (applications.Application, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, post_id, applicant_id, status, message,
			is_deleted, created_at, updated_at
		FROM applications
		WHERE post_id = $1 AND applicant_id = $2 AND NOT is_deleted
	`, postID, applicantID)

	return scanApplication(row)
}

func (r *ApplicationsRepo) ListByPost(ctx context.Context, postID string) ([]applications.Detail, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.post_id, a.applicant_id, a.status, a.message,
			a.is_deleted, a.created_at, a.updated_at,
			pr.nickname,
			CASE WHEN pr.phone_visible THEN pr.phone ELSE '' END,
			p.title, p.status
		FROM applications a
		JOIN profiles pr ON pr.id = a.applicant_id
		JOIN posts p ON p.id = a.post_id
		WHERE a.post_id = $1 AND NOT a.is_deleted
		ORDER BY a.created_at ASC
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDetails(rows)
}

func (r *ApplicationsRepo) ListByApplicant(ctx context.Context, applicantID string) ([]applications.Detail, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.post_id, a.applicant_id, a.status, a.message,
			a.is_deleted, a.created_at, a.updated_at,
			pr.nickname,
			CASE WHEN pr.phone_visible THEN pr.phone ELSE '' END,
			p.title, p.status
		FROM applications a
		JOIN profiles pr ON pr.id = a.applicant_id
		JOIN posts p ON p.id = a.post_id
		WHERE a.applicant_id = $1 AND NOT a.is_deleted
		ORDER BY a.created_at DESC
	`, applicantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDetails(rows)
}

func scanApplication(row rowScanner) (applications.Application, error) {
	var a applications.Application
	var status string
	if err := row.Scan(
		&a.ID,
		&a.PostID,
		&a.ApplicantID,
		&status,
		&a.Message,
		&a.IsDeleted,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return applications.Application{}, ErrNotFound
		}
		return applications.Application{}, err
	}
	a.Status = applications.Status(status)
	return a, nil
}

func scanDetails(rows *sql.Rows) ([]applications.Detail, error) {
	out := make([]applications.Detail, 0)
	for rows.Next() {
		var d applications.Detail
		var status string
		if err := rows.Scan(
			&d.ID,
			&d.PostID,
			&d.ApplicantID,
			&status,
			&d.Message,
			&d.IsDeleted,
			&d.CreatedAt,
			&d.UpdatedAt,
			&d.ApplicantNickname,
			&d.ApplicantPhone,
			&d.PostTitle,
			&d.PostStatus,
		); err != nil {
			return nil, err
		}
		d.Status = applications.Status(status)
		out = append(out, d)
	}
	return out, rows.Err()
}
