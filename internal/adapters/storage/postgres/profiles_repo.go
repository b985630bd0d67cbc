package postgres

import (
	"context"
	"database/sql"
	"strings"

	"move-togaether/internal/domain/profiles"
)

type ProfilesRepo struct {
	db *sql.DB
}

func NewProfilesRepo(db *sql.DB) *ProfilesRepo {
	return &ProfilesRepo{db: db}
}

const profileColumns = `
	id, auth_id, nickname, email,
	phone, phone_visible, bio, open_chat_url, instagram_url,
	security_question_id, security_answer, provider,
	is_deleted, created_at, updated_at
`

func (r *ProfilesRepo) Create(ctx context.Context, p profiles.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (
			id, auth_id, nickname, email,
			phone, phone_visible, bio, open_chat_url, instagram_url,
			security_question_id, security_answer, provider,
			is_deleted, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		p.ID,
		p.AuthID,
		p.Nickname,
		p.Email,
		p.Phone,
		p.PhoneVisible,
		p.Bio,
		p.OpenChatURL,
		p.InstagramURL,
		p.SecurityQuestionID,
		p.SecurityAnswer,
		string(p.Provider),
		p.IsDeleted,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *ProfilesRepo) Update(ctx context.Context, p profiles.Profile) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET
			nickname = $2,
			phone = $3,
			phone_visible = $4,
			bio = $5,
			open_chat_url = $6,
			instagram_url = $7,
			security_answer = $8,
			updated_at = $9
		WHERE id = $1 AND NOT is_deleted
	`,
		p.ID,
		p.Nickname,
		p.Phone,
		p.PhoneVisible,
		p.Bio,
		p.OpenChatURL,
		p.InstagramURL,
		p.SecurityAnswer,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return profiles.ErrNotFound
	}
	return nil
}

func (r *ProfilesRepo) GetByID(ctx context.Context, id string) (profiles.Profile, error) {
	return r.getBy(ctx, `id = $1`, strings.TrimSpace(id))
}

func (r *ProfilesRepo) GetByAuthID(ctx context.Context, authID string) (profiles.Profile, error) {
	return r.getBy(ctx, `auth_id = $1`, strings.TrimSpace(authID))
}

func (r *ProfilesRepo) GetByEmail(ctx context.Context, email string) (profiles.Profile, error) {
	return r.getBy(ctx, `lower(email) = $1`, email)
}

func (r *ProfilesRepo) GetByNickname(ctx context.Context, nickname string) (profiles.Profile, error) {
	return r.getBy(ctx, `lower(trim(nickname)) = $1`, nickname)
}

func (r *ProfilesRepo) getBy(ctx context.Context, where, arg string) (profiles.Profile, error) {
	if arg == "" {
		return profiles.Profile{}, profiles.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE `+where+` AND NOT is_deleted
	`, arg)

	var p profiles.Profile
	var provider string
	if err := row.Scan(
		&p.ID,
		&p.AuthID,
		&p.Nickname,
		&p.Email,
		&p.Phone,
		&p.PhoneVisible,
		&p.Bio,
		&p.OpenChatURL,
		&p.InstagramURL,
		&p.SecurityQuestionID,
		&p.SecurityAnswer,
		&provider,
		&p.IsDeleted,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return profiles.Profile{}, profiles.ErrNotFound
		}
		return profiles.Profile{}, err
	}

	p.Provider = profiles.Provider(provider)
	return p, nil
}
