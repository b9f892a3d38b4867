package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gardencircle/internal/config"
	"gardencircle/internal/featureflags"
	"gardencircle/internal/feed"
	"gardencircle/internal/repository"
	"gardencircle/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupMockDB creates a GORM *gorm.DB backed by sqlmock for unit tests.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

// newTestServer wires a Server over the given DB without touching
// Prometheus registration or external services.
func newTestServer(t *testing.T, gormDB *gorm.DB, redisClient *redis.Client) *Server {
	t.Helper()
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)
	commentRepo := repository.NewCommentRepository(gormDB)
	followRepo := repository.NewFollowRepository(gormDB)

	s := &Server{
		config:       &config.Config{JWTSecret: "test-secret", Port: "0"},
		db:           gormDB,
		redis:        redisClient,
		userRepo:     userRepo,
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		followRepo:   followRepo,
		featureFlags: featureflags.NewManager("assistant=on,news=on"),
		assembler:    feed.NewAssembler(postRepo, userRepo),
	}
	s.postService = service.NewPostService(postRepo, userRepo)
	s.commentService = service.NewCommentService(commentRepo, postRepo, userRepo)
	s.followService = service.NewFollowService(followRepo, userRepo)
	s.userService = service.NewUserService(userRepo, followRepo, postRepo)
	return s
}

// withUser injects an authenticated user into locals, bypassing JWT parsing.
func withUser(app *fiber.App, userID uint) {
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	})
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// --- parseIDParam ---

func TestParseIDParam_Valid(t *testing.T) {
	app := fiber.New()
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		require.NoError(t, err)
		return c.JSON(fiber.Map{"id": id})
	})

	req := httptest.NewRequest(http.MethodGet, "/items/42", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestParseIDParam_Invalid(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"non numeric", "/items/abc"},
		{"zero", "/items/0"},
		{"negative", "/items/-3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/items/:id", func(c *fiber.Ctx) error {
				_, err := parseIDParam(c, "id")
				assert.Error(t, err)
				return c.SendStatus(fiber.StatusBadRequest)
			})

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}
