package repository

import (
	"context"

	"github.com/dengeterapi/clinic-server-go/internal/database"
	"github.com/dengeterapi/clinic-server-go/internal/model"
)

type PasswordResetRepository interface {
	Create(ctx context.Context, params model.CreateAdminPasswordResetParams) (*model.AdminPasswordReset, error)
	FindUsableByTokenHash(ctx context.Context, tokenHash string) (*model.AdminPasswordReset, error)
	MarkUsed(ctx context.Context, id string) error
	DeleteByAdminID(ctx context.Context, adminID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type passwordResetRepo struct {
	db database.DBTX
}

func NewPasswordResetRepository(db database.DBTX) PasswordResetRepository {
	return &passwordResetRepo{db: db}
}

func (r *passwordResetRepo) Create(ctx context.Context, params model.CreateAdminPasswordResetParams) (*model.AdminPasswordReset, error) {
	var reset model.AdminPasswordReset
	err := r.db.GetContext(ctx, &reset, `
		INSERT INTO admin_password_resets (admin_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
		RETURNING *
	`, params.AdminID, params.TokenHash, params.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &reset, nil
}

// FindUsableByTokenHash returns the reset row only while it is unconsumed
// and unexpired.
func (r *passwordResetRepo) FindUsableByTokenHash(ctx context.Context, tokenHash string) (*model.AdminPasswordReset, error) {
	var reset model.AdminPasswordReset
	err := r.db.GetContext(ctx, &reset, `
		SELECT * FROM admin_password_resets
		WHERE token_hash = $1 AND used_at IS NULL AND expires_at > NOW()
	`, tokenHash)
	return HandleNotFound(&reset, err)
}

func (r *passwordResetRepo) MarkUsed(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE admin_password_resets SET used_at = NOW() WHERE id = $1 AND used_at IS NULL
	`, id)
	return err
}

func (r *passwordResetRepo) DeleteByAdminID(ctx context.Context, adminID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM admin_password_resets WHERE admin_id = $1`, adminID)
	return err
}

func (r *passwordResetRepo) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM admin_password_resets WHERE expires_at < NOW() OR used_at IS NOT NULL
	`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
