package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"techhive/internal/config"
	"techhive/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
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

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
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

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.User), args.Error(1)
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(mockRepo *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{
				"name":     "testuser",
				"email":    "test@example.com",
				"password": "Password123!",
			},
			mockSetup: func(mockRepo *MockUserRepository) {
				mockRepo.On("GetByEmail", mock.Anything, "test@example.com").Return(nil, nil)
				mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Duplicate Email Is A NoOp",
			body: map[string]string{
				"name":     "testuser",
				"email":    "exists@example.com",
				"password": "Password123!",
			},
			mockSetup: func(mockRepo *MockUserRepository) {
				mockRepo.On("GetByEmail", mock.Anything, "exists@example.com").
					Return(&models.User{ID: 1, Name: "original", Email: "exists@example.com"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Invalid Email",
			body: map[string]string{
				"name":     "testuser",
				"email":    "not-an-email",
				"password": "Password123!",
			},
			mockSetup:      func(*MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Weak Password",
			body: map[string]string{
				"name":     "testuser",
				"email":    "test@example.com",
				"password": "short",
			},
			mockSetup:      func(*MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			mockRepo := new(MockUserRepository)
			s := &Server{
				config:   &config.Config{JWTSecret: "test_secret"},
				userRepo: mockRepo,
			}
			app.Post("/signup", s.Signup)
			tt.mockSetup(mockRepo)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestSignup_DuplicateReturnsExistingAccountWithoutToken(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockUserRepository)
	s := &Server{
		config:   &config.Config{JWTSecret: "test_secret"},
		userRepo: mockRepo,
	}
	app.Post("/signup", s.Signup)

	existing := &models.User{ID: 7, Name: "original", Email: "exists@example.com"}
	mockRepo.On("GetByEmail", mock.Anything, "exists@example.com").Return(existing, nil)

	body, _ := json.Marshal(map[string]string{
		"name":     "impostor",
		"email":    "exists@example.com",
		"password": "Password123!",
	})
	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Message string       `json:"message"`
		Token   string       `json:"token"`
		User    *models.User `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))

	assert.Empty(t, payload.Token)
	require.NotNil(t, payload.User)
	assert.Equal(t, uint(7), payload.User.ID)
	assert.Equal(t, "original", payload.User.Name)
	// The existing account must not be overwritten.
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.DefaultCost)
	require.NoError(t, err)

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(mockRepo *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{"email": "test@example.com", "password": "Password123!"},
			mockSetup: func(mockRepo *MockUserRepository) {
				mockRepo.On("GetByEmail", mock.Anything, "test@example.com").
					Return(&models.User{ID: 1, Name: "testuser", Email: "test@example.com", Password: string(hashed)}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Wrong Password",
			body: map[string]string{"email": "test@example.com", "password": "WrongPass456!"},
			mockSetup: func(mockRepo *MockUserRepository) {
				mockRepo.On("GetByEmail", mock.Anything, "test@example.com").
					Return(&models.User{ID: 1, Password: string(hashed)}, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Unknown Email",
			body: map[string]string{"email": "nobody@example.com", "password": "Password123!"},
			mockSetup: func(mockRepo *MockUserRepository) {
				mockRepo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			mockRepo := new(MockUserRepository)
			s := &Server{
				config:   &config.Config{JWTSecret: "test_secret"},
				userRepo: mockRepo,
			}
			app.Post("/login", s.Login)
			tt.mockSetup(mockRepo)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	s := &Server{
		config: &config.Config{JWTSecret: "test_secret"},
		redis:  rdb,
	}

	app := fiber.New()
	app.Post("/logout", s.Logout)
	app.Get("/protected", s.AuthRequired(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	token, err := s.generateToken(12, "testuser")
	require.NoError(t, err)

	// Token works before logout.
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Logout blacklists the JTI.
	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The same token is now rejected.
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequired_RejectsBadTokens(t *testing.T) {
	s := &Server{config: &config.Config{JWTSecret: "test_secret"}}

	app := fiber.New()
	app.Get("/protected", s.AuthRequired(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		resp, err := app.Test(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := &Server{config: &config.Config{JWTSecret: "other_secret"}}
		token, err := other.generateToken(3, "eve")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
