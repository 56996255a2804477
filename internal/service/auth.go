package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/dengeterapi/clinic-server-go/internal/config"
	"github.com/dengeterapi/clinic-server-go/internal/database"
	apperrors "github.com/dengeterapi/clinic-server-go/internal/errors"
	"github.com/dengeterapi/clinic-server-go/internal/model"
	"github.com/dengeterapi/clinic-server-go/internal/notify"
	"github.com/dengeterapi/clinic-server-go/internal/repository"
	"github.com/dengeterapi/clinic-server-go/internal/util"
)

// transactor is the slice of database.DB the credential flows need.
type transactor interface {
	WithTx(ctx context.Context, fn database.TxFunc) error
}

// AuthService owns the admin credential lifecycle: first-run setup, login
// sessions, and the one-time password reset flow.
type AuthService struct {
	db            transactor
	userRepo      repository.AdminUserRepository
	sessionRepo   repository.AdminSessionRepository
	resetRepo     repository.PasswordResetRepository
	mailer        *notify.Mailer
	settings      *SettingsService
	sessionSecret string
	baseURL       string

	// transactional flows build their repositories over the active tx
	txUsers    func(database.DBTX) repository.AdminUserRepository
	txSessions func(database.DBTX) repository.AdminSessionRepository
	txResets   func(database.DBTX) repository.PasswordResetRepository
}

func NewAuthService(
	db *database.DB,
	userRepo repository.AdminUserRepository,
	sessionRepo repository.AdminSessionRepository,
	resetRepo repository.PasswordResetRepository,
	mailer *notify.Mailer,
	settings *SettingsService,
	sessionSecret, baseURL string,
) *AuthService {
	return &AuthService{
		db:            db,
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		resetRepo:     resetRepo,
		mailer:        mailer,
		settings:      settings,
		sessionSecret: sessionSecret,
		baseURL:       baseURL,
		txUsers:       repository.NewAdminUserRepository,
		txSessions:    repository.NewAdminSessionRepository,
		txResets:      repository.NewPasswordResetRepository,
	}
}

// Setup creates the very first admin account and logs it in. Runs inside a
// transaction so two racing setup calls cannot both pass the zero-admins
// check.
func (s *AuthService) Setup(ctx context.Context, name, email, password string) (*model.AdminUser, string, error) {
	passwordHash, err := util.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	var user *model.AdminUser
	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		users := s.txUsers(tx)

		count, err := users.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return apperrors.Conflict("Kurulum zaten tamamlandı.")
		}

		user, err = users.Create(ctx, model.CreateAdminUserParams{
			Name:         name,
			Email:        email,
			PasswordHash: passwordHash,
		})
		return err
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.createSession(ctx, user.ID, false)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login returns an empty token on any failure so callers cannot tell an
// unknown email from a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string, rememberMe bool) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil || !util.CheckPasswordHash(password, user.PasswordHash) {
		return "", nil
	}

	token, err := s.createSession(ctx, user.ID, rememberMe)
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		log.Warn().Err(err).Str("admin_id", user.ID).Msg("failed to update last login timestamp")
	}

	return token, nil
}

func (s *AuthService) createSession(ctx context.Context, adminID string, rememberMe bool) (string, error) {
	token, err := util.GenerateToken()
	if err != nil {
		return "", err
	}

	ttl := config.SessionTTL
	if rememberMe {
		ttl = config.RememberSessionTTL
	}

	_, err = s.sessionRepo.Create(ctx, model.CreateAdminSessionParams{
		AdminID:   adminID,
		TokenHash: util.HmacSHA256(s.sessionSecret, token),
		ExpiresAt: time.Now().Add(ttl),
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

// Logout is idempotent: an unknown or already-deleted token is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	tokenHash := util.HmacSHA256(s.sessionSecret, token)
	return s.sessionRepo.DeleteByTokenHash(ctx, tokenHash)
}

// RequestPasswordReset issues a fresh one-time token and emails the reset
// link. It reports success regardless of outcome so the endpoint cannot be
// used to enumerate admin emails. Prior unused tokens for the admin are
// replaced atomically with the new one.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil || user == nil {
		if err != nil {
			log.Error().Err(err).Msg("password reset: lookup failed")
		}
		return
	}

	token, err := util.GenerateToken()
	if err != nil {
		log.Error().Err(err).Msg("password reset: token generation failed")
		return
	}

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		resets := s.txResets(tx)
		if err := resets.DeleteByAdminID(ctx, user.ID); err != nil {
			return err
		}
		_, err := resets.Create(ctx, model.CreateAdminPasswordResetParams{
			AdminID:   user.ID,
			TokenHash: util.HashToken(token),
			ExpiresAt: time.Now().Add(config.ResetTokenTTL),
		})
		return err
	})
	if err != nil {
		log.Error().Err(err).Str("admin_id", user.ID).Msg("password reset: store failed")
		return
	}

	resetLink := fmt.Sprintf("%s/admin/reset-password?token=%s", s.baseURL, token)
	result := s.mailer.SendPasswordResetEmail(s.settings.ResolveSMTP(ctx), user.Email, resetLink)
	if !result.Success {
		log.Error().Str("admin_id", user.ID).Str("reason", result.Error).Msg("password reset: email failed")
	}
}

// ResetPassword consumes a reset token. The false return covers every
// invalid case the same way: unknown, expired, and already-used tokens.
// Consuming the token also destroys every session of that admin.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) (bool, error) {
	reset, err := s.resetRepo.FindUsableByTokenHash(ctx, util.HashToken(token))
	if err != nil {
		return false, err
	}
	if reset == nil {
		return false, nil
	}

	passwordHash, err := util.HashPassword(newPassword)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.txUsers(tx).UpdatePasswordHash(ctx, reset.AdminID, passwordHash); err != nil {
			return err
		}
		if err := s.txResets(tx).MarkUsed(ctx, reset.ID); err != nil {
			return err
		}
		return s.txSessions(tx).DeleteByAdminID(ctx, reset.AdminID)
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

func (s *AuthService) AdminCount(ctx context.Context) (int, error) {
	return s.userRepo.Count(ctx)
}
