package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
)

type UserRepo struct {
	DB *sql.DB
}

func (r *UserRepo) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	defer observe("user_find")()

	var (
		email, nickname string
		avatar          sql.NullString
		createdAt       sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT email, nickname, avatar_url, created_at
		FROM users
		WHERE id = $1
	`, string(id)).Scan(&email, &nickname, &avatar, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return domain.NewUser(
		id,
		domain.RestoreEmail(email),
		domain.RestoreNickname(nickname),
		domain.RestoreAvatarURL(avatar.String),
		createdAt.Time,
	), nil
}

func (r *UserRepo) Save(ctx context.Context, u *domain.User) error {
	defer observe("user_save")()

	var avatar sql.NullString
	if v, ok := u.AvatarURL().Value(); ok {
		avatar = sql.NullString{String: v, Valid: true}
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, email, nickname, avatar_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET nickname = EXCLUDED.nickname,
		    avatar_url = EXCLUDED.avatar_url
	`, string(u.ID()), u.Email().String(), u.Nickname().String(), avatar, u.CreatedAt())
	return err
}
