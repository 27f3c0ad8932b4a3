package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"techhive/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRequired_WSTicket(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	s := &Server{
		config: &config.Config{JWTSecret: "test-secret"},
		redis:  rdb,
	}

	app := fiber.New()
	app.Post("/api/ws/ticket", s.AuthRequired(), s.IssueWSTicket)
	app.Get("/api/ws/test", s.AuthRequired(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userID": c.Locals("userID")})
	})

	token, err := s.generateToken(42, "testuser")
	require.NoError(t, err)

	// Issue a ticket with the JWT.
	req := httptest.NewRequest(http.MethodPost, "/api/ws/ticket", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var issued struct {
		Ticket    string `json:"ticket"`
		ExpiresIn int    `json:"expires_in"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&issued))
	require.NotEmpty(t, issued.Ticket)
	assert.Equal(t, int(wsTicketTTL.Seconds()), issued.ExpiresIn)

	// First redemption succeeds and identifies the user.
	req = httptest.NewRequest(http.MethodGet, "/api/ws/test?ticket="+issued.Ticket, nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		UserID uint `json:"userID"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, uint(42), body.UserID)

	// Tickets are single-use: the second redemption fails.
	req = httptest.NewRequest(http.MethodGet, "/api/ws/test?ticket="+issued.Ticket, nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequired_ExpiredWSTicket(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	s := &Server{
		config: &config.Config{JWTSecret: "test-secret"},
		redis:  rdb,
	}

	app := fiber.New()
	app.Get("/api/ws/test", s.AuthRequired(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	require.NoError(t, rdb.Set(context.Background(), "ws_ticket:stale", "42", wsTicketTTL).Err())
	mr.FastForward(wsTicketTTL * 2)

	req := httptest.NewRequest(http.MethodGet, "/api/ws/test?ticket=stale", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequired_InvalidTicketOnRegularRouteFallsBackToJWT(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	s := &Server{
		config: &config.Config{JWTSecret: "test-secret"},
		redis:  rdb,
	}

	app := fiber.New()
	app.Get("/api/other", s.AuthRequired(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	token, err := s.generateToken(5, "testuser")
	require.NoError(t, err)

	// A bogus ticket on a non-WS route does not block JWT auth.
	req := httptest.NewRequest(http.MethodGet, "/api/other?ticket=bogus", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
