package repository

import (
	"context"
	"time"

	"github.com/dengeterapi/clinic-server-go/internal/database"
	"github.com/dengeterapi/clinic-server-go/internal/model"
)

type AdminUserRepository interface {
	FindByID(ctx context.Context, id string) (*model.AdminUser, error)
	FindByEmail(ctx context.Context, email string) (*model.AdminUser, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, params model.CreateAdminUserParams) (*model.AdminUser, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

type adminUserRepo struct {
	db database.DBTX
}

func NewAdminUserRepository(db database.DBTX) AdminUserRepository {
	return &adminUserRepo{db: db}
}

func (r *adminUserRepo) FindByID(ctx context.Context, id string) (*model.AdminUser, error) {
	var user model.AdminUser
	err := r.db.GetContext(ctx, &user, `
		SELECT * FROM admin_users WHERE id = $1
	`, id)
	return HandleNotFound(&user, err)
}

func (r *adminUserRepo) FindByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	var user model.AdminUser
	err := r.db.GetContext(ctx, &user, `
		SELECT * FROM admin_users WHERE lower(email) = lower($1)
	`, email)
	return HandleNotFound(&user, err)
}

func (r *adminUserRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM admin_users`)
	return count, err
}

func (r *adminUserRepo) Create(ctx context.Context, params model.CreateAdminUserParams) (*model.AdminUser, error) {
	var user model.AdminUser
	err := r.db.GetContext(ctx, &user, `
		INSERT INTO admin_users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING *
	`, params.Name, params.Email, params.PasswordHash)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *adminUserRepo) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE admin_users SET password_hash = $2, updated_at = NOW() WHERE id = $1
	`, id, passwordHash)
	return err
}

func (r *adminUserRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE admin_users SET last_login_at = $2 WHERE id = $1
	`, id, at)
	return err
}
