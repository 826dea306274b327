package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"

	"dealspy/internal/config"
	"dealspy/internal/middleware"
)

// TestErrorHandlerEnvelope verifies that errors bubbling out of handlers are
// rendered in the standard JSON envelope rather than Fiber's default body.
func TestErrorHandlerEnvelope(t *testing.T) {
	cfg := &config.Config{Env: "development", BaseURL: "http://localhost:8080"}
	s := New(cfg)

	auth := middleware.NewDevAuthMiddleware()
	s.App.Get("/protected", auth.RequireAuth, func(c fiber.Ctx) error {
		return c.SendString(middleware.UID(c))
	})

	req, _ := http.NewRequest("GET", "/protected", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body.Success {
		t.Error("expected success=false in error envelope")
	}
	if body.Message == "" {
		t.Error("expected a message in error envelope")
	}
}

func TestDevAuthPassesUID(t *testing.T) {
	cfg := &config.Config{Env: "development", BaseURL: "http://localhost:8080"}
	s := New(cfg)

	auth := middleware.NewDevAuthMiddleware()
	s.App.Get("/whoami", auth.RequireAuth, func(c fiber.Ctx) error {
		return c.SendString(middleware.UID(c))
	})

	req, _ := http.NewRequest("GET", "/whoami", nil)
	req.Header.Set("X-Debug-UID", "user-42")
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	buf := make([]byte, 32)
	n, _ := resp.Body.Read(buf)
	if got := string(buf[:n]); got != "user-42" {
		t.Errorf("uid = %q, want %q", got, "user-42")
	}
}
