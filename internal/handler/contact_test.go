package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dengeterapi/clinic-server-go/internal/model"
	"github.com/dengeterapi/clinic-server-go/internal/notify"
	"github.com/dengeterapi/clinic-server-go/internal/service"
)

type mockContactRepo struct {
	mock.Mock
}

func (m *mockContactRepo) Create(ctx context.Context, params model.CreateContactSubmissionParams) (*model.ContactSubmission, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContactSubmission), args.Error(1)
}

func (m *mockContactRepo) List(ctx context.Context, limit, offset int) ([]model.ContactSubmission, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ContactSubmission), args.Error(1)
}

func (m *mockContactRepo) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockAssessmentRepo struct {
	mock.Mock
}

func (m *mockAssessmentRepo) Upsert(ctx context.Context, params model.UpsertAssessmentParams) (*model.Assessment, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assessment), args.Error(1)
}

func (m *mockAssessmentRepo) FindBySessionID(ctx context.Context, sessionID string) (*model.Assessment, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assessment), args.Error(1)
}

func (m *mockAssessmentRepo) List(ctx context.Context, limit, offset int) ([]model.Assessment, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Assessment), args.Error(1)
}

type mockSettingRepo struct {
	mock.Mock
}

func (m *mockSettingRepo) Get(ctx context.Context, key string) (*model.AppSetting, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AppSetting), args.Error(1)
}

func (m *mockSettingRepo) Set(ctx context.Context, key string, value json.RawMessage) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func noopRateLimiter(next http.Handler) http.Handler {
	return next
}

func newContactTestServer(contactRepo *mockContactRepo, assessmentRepo *mockAssessmentRepo) http.Handler {
	settingRepo := new(mockSettingRepo)
	settingRepo.On("Get", mock.Anything, mock.Anything).Return(nil, nil)

	settingsService := service.NewSettingsService(settingRepo, "contact-test-secret", notify.SMTPConfig{})
	contactService := service.NewContactService(contactRepo, notify.NewMailer(), notify.NewWhatsAppClient("", "", ""), settingsService)
	assessmentService := service.NewAssessmentService(assessmentRepo)

	return NewContactHandler(contactService, assessmentService, noopRateLimiter).Routes()
}

func TestContactHandlerSubmit(t *testing.T) {
	t.Run("persists the row even when both notification channels are unconfigured", func(t *testing.T) {
		contactRepo := new(mockContactRepo)
		handler := newContactTestServer(contactRepo, new(mockAssessmentRepo))

		contactRepo.On("Create", mock.Anything, mock.MatchedBy(func(p model.CreateContactSubmissionParams) bool {
			return p.Name == "Ayşe Yılmaz" && p.Email == "ayse@example.com"
		})).Return(&model.ContactSubmission{ID: "sub-1"}, nil)

		body := `{"name":"Ayşe Yılmaz","email":"ayse@example.com","message":"Randevu almak istiyorum."}`
		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, true, resp["success"])
		assert.Equal(t, "sub-1", resp["id"])
		contactRepo.AssertExpectations(t)
	})

	t.Run("rejects a missing message", func(t *testing.T) {
		contactRepo := new(mockContactRepo)
		handler := newContactTestServer(contactRepo, new(mockAssessmentRepo))

		body := `{"name":"Ayşe","email":"ayse@example.com","message":"   "}`
		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		contactRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects an invalid email", func(t *testing.T) {
		handler := newContactTestServer(new(mockContactRepo), new(mockAssessmentRepo))

		body := `{"name":"Ayşe","email":"not-an-email","message":"Merhaba"}`
		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestContactHandlerSaveAssessment(t *testing.T) {
	t.Run("upserts by session id", func(t *testing.T) {
		assessmentRepo := new(mockAssessmentRepo)
		handler := newContactTestServer(new(mockContactRepo), assessmentRepo)

		assessmentRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(p model.UpsertAssessmentParams) bool {
			return p.SessionID == "visitor-1" && p.Status == model.AssessmentStatusCompleted
		})).Return(&model.Assessment{ID: "a-1", SessionID: "visitor-1"}, nil)

		body := `{"sessionId":"visitor-1","answers":{"q1":"yes"},"completed":true}`
		req := httptest.NewRequest(http.MethodPost, "/assessment/create", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assessmentRepo.AssertExpectations(t)
	})

	t.Run("requires a session id", func(t *testing.T) {
		handler := newContactTestServer(new(mockContactRepo), new(mockAssessmentRepo))

		body := `{"answers":{"q1":"yes"}}`
		req := httptest.NewRequest(http.MethodPost, "/assessment/create", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
