package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/altonotch/dilli/internal/model"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindBySenderHash(ctx context.Context, senderHash string) (*model.User, error)
	Create(ctx context.Context, params model.CreateUserParams) (*model.User, error)
	UpdateLocale(ctx context.Context, id, locale string) error
	UpdateCity(ctx context.Context, id string, cityID *int64, city string) error
	TouchLastSeen(ctx context.Context, id string, at time.Time) error
}

type userRepo struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `
		SELECT * FROM users WHERE id = $1
	`, id)
	return HandleNotFound(&user, err)
}

func (r *userRepo) FindBySenderHash(ctx context.Context, senderHash string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `
		SELECT * FROM users WHERE sender_hash = $1
	`, senderHash)
	return HandleNotFound(&user, err)
}

func (r *userRepo) Create(ctx context.Context, params model.CreateUserParams) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `
		INSERT INTO users (id, sender_hash, sender_last4, display_name, locale)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, uuid.NewString(), params.SenderHash, params.SenderLast4, params.DisplayName, params.Locale)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) UpdateLocale(ctx context.Context, id, locale string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET locale = $2 WHERE id = $1
	`, id, locale)
	return err
}

func (r *userRepo) UpdateCity(ctx context.Context, id string, cityID *int64, city string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET city_id = $2, city = $3 WHERE id = $1
	`, id, cityID, city)
	return err
}

func (r *userRepo) TouchLastSeen(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET last_seen = $2 WHERE id = $1
	`, id, at)
	return err
}
