package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dengeterapi/clinic-server-go/internal/errors"
	"github.com/dengeterapi/clinic-server-go/internal/middleware"
	"github.com/dengeterapi/clinic-server-go/internal/model"
	"github.com/dengeterapi/clinic-server-go/internal/service"
	"github.com/dengeterapi/clinic-server-go/internal/util"
)

// Mock repositories
type mockAdminUserRepo struct {
	mock.Mock
}

func (m *mockAdminUserRepo) FindByID(ctx context.Context, id string) (*model.AdminUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminUser), args.Error(1)
}

func (m *mockAdminUserRepo) FindByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminUser), args.Error(1)
}

func (m *mockAdminUserRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockAdminUserRepo) Create(ctx context.Context, params model.CreateAdminUserParams) (*model.AdminUser, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminUser), args.Error(1)
}

func (m *mockAdminUserRepo) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *mockAdminUserRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type mockAdminSessionRepo struct {
	mock.Mock
}

func (m *mockAdminSessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.AdminSession, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminSession), args.Error(1)
}

func (m *mockAdminSessionRepo) Create(ctx context.Context, params model.CreateAdminSessionParams) (*model.AdminSession, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminSession), args.Error(1)
}

func (m *mockAdminSessionRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *mockAdminSessionRepo) DeleteByAdminID(ctx context.Context, adminID string) error {
	args := m.Called(ctx, adminID)
	return args.Error(0)
}

func (m *mockAdminSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockPasswordResetRepo struct {
	mock.Mock
}

func (m *mockPasswordResetRepo) Create(ctx context.Context, params model.CreateAdminPasswordResetParams) (*model.AdminPasswordReset, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminPasswordReset), args.Error(1)
}

func (m *mockPasswordResetRepo) FindUsableByTokenHash(ctx context.Context, tokenHash string) (*model.AdminPasswordReset, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminPasswordReset), args.Error(1)
}

func (m *mockPasswordResetRepo) MarkUsed(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPasswordResetRepo) DeleteByAdminID(ctx context.Context, adminID string) error {
	args := m.Called(ctx, adminID)
	return args.Error(0)
}

func (m *mockPasswordResetRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newAuthTestServer(userRepo *mockAdminUserRepo, sessionRepo *mockAdminSessionRepo, resetRepo *mockPasswordResetRepo) http.Handler {
	authService := service.NewAuthService(nil, userRepo, sessionRepo, resetRepo, nil, nil, "handler-test-secret", "http://localhost:3000")
	return NewAuthHandler(authService, false).Routes()
}

type stubCredentialService struct {
	setupFunc func(ctx context.Context, name, email, password string) (*model.AdminUser, string, error)
}

func (s *stubCredentialService) Setup(ctx context.Context, name, email, password string) (*model.AdminUser, string, error) {
	return s.setupFunc(ctx, name, email, password)
}

func (s *stubCredentialService) Login(context.Context, string, string, bool) (string, error) {
	return "", nil
}

func (s *stubCredentialService) Logout(context.Context, string) error { return nil }

func (s *stubCredentialService) RequestPasswordReset(context.Context, string) {}

func (s *stubCredentialService) ResetPassword(context.Context, string, string) (bool, error) {
	return false, nil
}

func TestAuthHandlerSetup(t *testing.T) {
	t.Run("returns 200 with the new admin and a session cookie", func(t *testing.T) {
		svc := &stubCredentialService{
			setupFunc: func(_ context.Context, name, email, _ string) (*model.AdminUser, string, error) {
				return &model.AdminUser{ID: "admin-1", Name: name, Email: email}, "fresh-token", nil
			},
		}
		handler := NewAuthHandler(svc, false).Routes()

		body, _ := json.Marshal(map[string]string{"name": "Admin", "email": "admin@example.com", "password": "ilk parola 123"})
		req := httptest.NewRequest(http.MethodPost, "/setup", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, true, resp["success"])
		require.Contains(t, resp, "user")

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, middleware.AdminSessionCookie, cookies[0].Name)
		assert.Equal(t, "fresh-token", cookies[0].Value)
	})

	t.Run("a second setup maps to 409", func(t *testing.T) {
		svc := &stubCredentialService{
			setupFunc: func(context.Context, string, string, string) (*model.AdminUser, string, error) {
				return nil, "", apperrors.Conflict("Kurulum zaten tamamlandı.")
			},
		}
		handler := NewAuthHandler(svc, false).Routes()

		body, _ := json.Marshal(map[string]string{"name": "İkinci", "email": "second@example.com", "password": "başka parola 456"})
		req := httptest.NewRequest(http.MethodPost, "/setup", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Empty(t, rec.Result().Cookies())
	})
}

func TestAuthHandlerLogin(t *testing.T) {
	passwordHash, err := util.HashPassword("correct horse battery")
	require.NoError(t, err)

	admin := &model.AdminUser{ID: "admin-1", Email: "admin@example.com", PasswordHash: passwordHash}

	t.Run("unknown email returns generic 401 without a cookie", func(t *testing.T) {
		userRepo := new(mockAdminUserRepo)
		sessionRepo := new(mockAdminSessionRepo)
		handler := newAuthTestServer(userRepo, sessionRepo, nil)

		userRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

		body, _ := json.Marshal(map[string]string{"email": "nobody@example.com", "password": "whatever"})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Geçersiz giriş bilgisi.", resp["error"])
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("wrong password returns the same generic 401", func(t *testing.T) {
		userRepo := new(mockAdminUserRepo)
		sessionRepo := new(mockAdminSessionRepo)
		handler := newAuthTestServer(userRepo, sessionRepo, nil)

		userRepo.On("FindByEmail", mock.Anything, "admin@example.com").Return(admin, nil)

		body, _ := json.Marshal(map[string]string{"email": "admin@example.com", "password": "wrong"})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Geçersiz giriş bilgisi.", resp["error"])
	})

	t.Run("valid credentials set an HTTP-only session cookie", func(t *testing.T) {
		userRepo := new(mockAdminUserRepo)
		sessionRepo := new(mockAdminSessionRepo)
		handler := newAuthTestServer(userRepo, sessionRepo, nil)

		userRepo.On("FindByEmail", mock.Anything, "admin@example.com").Return(admin, nil)
		sessionRepo.On("Create", mock.Anything, mock.Anything).Return(&model.AdminSession{ID: "sess-1"}, nil)
		userRepo.On("UpdateLastLogin", mock.Anything, "admin-1", mock.Anything).Return(nil)

		body, _ := json.Marshal(map[string]string{"email": "admin@example.com", "password": "correct horse battery"})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, middleware.AdminSessionCookie, cookies[0].Name)
		assert.NotEmpty(t, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	})
}

func TestAuthHandlerLogout(t *testing.T) {
	t.Run("redirects to the public site and clears the cookie", func(t *testing.T) {
		sessionRepo := new(mockAdminSessionRepo)
		handler := newAuthTestServer(new(mockAdminUserRepo), sessionRepo, nil)

		sessionRepo.On("DeleteByTokenHash", mock.Anything, mock.Anything).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		req.AddCookie(&http.Cookie{Name: middleware.AdminSessionCookie, Value: "some-token"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Empty(t, cookies[0].Value)
		assert.Negative(t, cookies[0].MaxAge)
	})

	t.Run("redirects even without a session cookie", func(t *testing.T) {
		handler := newAuthTestServer(new(mockAdminUserRepo), new(mockAdminSessionRepo), nil)

		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})
}

func TestAuthHandlerForgotPassword(t *testing.T) {
	t.Run("unknown email still answers 200", func(t *testing.T) {
		userRepo := new(mockAdminUserRepo)
		resetRepo := new(mockPasswordResetRepo)
		handler := newAuthTestServer(userRepo, new(mockAdminSessionRepo), resetRepo)

		userRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

		body, _ := json.Marshal(map[string]string{"email": "nobody@example.com"})
		req := httptest.NewRequest(http.MethodPost, "/forgot-password", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		resetRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("malformed email still answers 200", func(t *testing.T) {
		handler := newAuthTestServer(new(mockAdminUserRepo), new(mockAdminSessionRepo), new(mockPasswordResetRepo))

		req := httptest.NewRequest(http.MethodPost, "/forgot-password", strings.NewReader(`{"email":"not-an-email"}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAuthHandlerResetPassword(t *testing.T) {
	t.Run("invalid token answers 400 with a generic message", func(t *testing.T) {
		resetRepo := new(mockPasswordResetRepo)
		handler := newAuthTestServer(new(mockAdminUserRepo), new(mockAdminSessionRepo), resetRepo)

		resetRepo.On("FindUsableByTokenHash", mock.Anything, mock.Anything).Return(nil, nil)

		body, _ := json.Marshal(map[string]string{"token": "expired-or-bogus", "password": "new password 123"})
		req := httptest.NewRequest(http.MethodPost, "/reset-password", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Geçersiz veya süresi dolmuş bağlantı.")
	})

	t.Run("short password is rejected before touching the token", func(t *testing.T) {
		resetRepo := new(mockPasswordResetRepo)
		handler := newAuthTestServer(new(mockAdminUserRepo), new(mockAdminSessionRepo), resetRepo)

		body, _ := json.Marshal(map[string]string{"token": "whatever", "password": "short"})
		req := httptest.NewRequest(http.MethodPost, "/reset-password", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resetRepo.AssertNotCalled(t, "FindUsableByTokenHash", mock.Anything, mock.Anything)
	})
}
