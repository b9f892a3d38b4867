package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gardencircle/internal/config"
	"gardencircle/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDWithPosts(ctx context.Context, id uint, limit int) (*models.User, error) {
	args := m.Called(ctx, id, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteWithContent(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) SetAdmin(ctx context.Context, id uint, isAdmin bool) error {
	args := m.Called(ctx, id, isAdmin)
	return args.Error(0)
}

func (m *MockUserRepository) AvatarsByUser(ctx context.Context, userIDs []uint) (map[uint]string, error) {
	args := m.Called(ctx, userIDs)
	return args.Get(0).(map[uint]string), args.Error(1)
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(m *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{
				"username": "gardener",
				"email":    "gardener@example.com",
				"password": "Tomatoes123!",
			},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "gardener@example.com").Return(nil, nil)
				m.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Duplicate Email",
			body: map[string]string{
				"username": "gardener",
				"email":    "exists@example.com",
				"password": "Tomatoes123!",
			},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "exists@example.com").
					Return(&models.User{ID: 1}, nil)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "Weak Password",
			body: map[string]string{
				"username": "gardener",
				"email":    "gardener@example.com",
				"password": "short",
			},
			mockSetup:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Bad Username",
			body: map[string]string{
				"username": "_gardener",
				"email":    "gardener@example.com",
				"password": "Tomatoes123!",
			},
			mockSetup:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.mockSetup(mockRepo)

			s := &Server{
				config:   &config.Config{JWTSecret: "test-secret"},
				userRepo: mockRepo,
			}
			app := fiber.New()
			app.Post("/signup", s.Signup)

			resp := postJSON(t, app, "/signup", tt.body)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestSignup_ReturnsToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByEmail", mock.Anything, "gardener@example.com").Return(nil, nil)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	s := &Server{
		config:   &config.Config{JWTSecret: "test-secret"},
		userRepo: mockRepo,
	}
	app := fiber.New()
	app.Post("/signup", s.Signup)

	resp := postJSON(t, app, "/signup", map[string]string{
		"username": "gardener",
		"email":    "gardener@example.com",
		"password": "Tomatoes123!",
	})

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var body struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeBody(t, resp, &body)

	require.NotEmpty(t, body.Token)
	userID, _, err := s.parseToken(body.Token)
	require.NoError(t, err)
	assert.Equal(t, body.User.ID, userID)
}

func TestLogin(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Tomatoes123!"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &models.User{ID: 3, Username: "gardener", Email: "gardener@example.com", Password: string(hashed)}

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(m *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{"email": "gardener@example.com", "password": "Tomatoes123!"},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "gardener@example.com").Return(stored, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Wrong Password",
			body: map[string]string{"email": "gardener@example.com", "password": "Potatoes123!"},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "gardener@example.com").Return(stored, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Unknown Email",
			body: map[string]string{"email": "nobody@example.com", "password": "Tomatoes123!"},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.mockSetup(mockRepo)

			s := &Server{
				config:   &config.Config{JWTSecret: "test-secret"},
				userRepo: mockRepo,
			}
			app := fiber.New()
			app.Post("/login", s.Login)

			resp := postJSON(t, app, "/login", tt.body)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestRefresh_IssuesNewToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByID", mock.Anything, uint(3)).
		Return(&models.User{ID: 3, Username: "gardener"}, nil)

	s := &Server{
		config:   &config.Config{JWTSecret: "test-secret"},
		userRepo: mockRepo,
	}
	app := fiber.New()
	withUser(app, 3)
	app.Post("/refresh", s.Refresh)

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)

	userID, _, perr := s.parseToken(body.Token)
	require.NoError(t, perr)
	assert.Equal(t, uint(3), userID)
}
