package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"taskhive/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByName(ctx context.Context, userName string) (domain.User, error)
	SetProfileImage(ctx context.Context, id, url string) error
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO user_information (id, email, user_name, profile_image, password, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.UserName,
		user.AvatarURL,
		user.PasswordHash,
		user.CreatedAt,
	)
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = `
		SELECT id, email, user_name, COALESCE(profile_image, ''), password, created_at
		FROM user_information
		WHERE id = $1
	`
	return r.scanOne(ctx, query, id)
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `
		SELECT id, email, user_name, COALESCE(profile_image, ''), password, created_at
		FROM user_information
		WHERE email = $1
	`
	return r.scanOne(ctx, query, email)
}

func (r *PgUserRepository) GetByName(ctx context.Context, userName string) (domain.User, error) {
	const query = `
		SELECT id, email, user_name, COALESCE(profile_image, ''), password, created_at
		FROM user_information
		WHERE user_name = $1
	`
	return r.scanOne(ctx, query, userName)
}

func (r *PgUserRepository) SetProfileImage(ctx context.Context, id, url string) error {
	const query = `
		UPDATE user_information SET profile_image = $2 WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, url)
	return err
}

func (r *PgUserRepository) scanOne(ctx context.Context, query string, arg any) (domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Email,
		&u.UserName,
		&u.AvatarURL,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	return u, err
}
