// Package middleware holds request-level Fiber middleware.
package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gofiber/fiber/v3"
)

// Claims carries the identity fields extracted from a verified ID token.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthMiddleware verifies Firebase bearer tokens on incoming requests.
type AuthMiddleware struct {
	verifier *oidc.IDTokenVerifier
	devMode  bool
}

// NewAuthMiddleware builds the OIDC verifier against the Firebase issuer for
// the configured audience (the Firebase project ID).
func NewAuthMiddleware(ctx context.Context, issuer, audience string) (*AuthMiddleware, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to set up OIDC provider: %w", err)
	}
	verifier := provider.Verifier(&oidc.Config{ClientID: audience})
	return &AuthMiddleware{verifier: verifier}, nil
}

// NewDevAuthMiddleware trusts the X-Debug-UID header instead of verifying
// tokens. Development only.
func NewDevAuthMiddleware() *AuthMiddleware {
	return &AuthMiddleware{devMode: true}
}

// RequireAuth validates the Authorization bearer token and stores the caller's
// uid and claims in request locals.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	if m.devMode {
		uid := c.Get("X-Debug-UID")
		if uid == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing X-Debug-UID header")
		}
		c.Locals("uid", uid)
		c.Locals("claims", Claims{})
		return c.Next()
	}

	raw, ok := bearerToken(c.Get("Authorization"))
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
	}

	token, err := m.verifier.Verify(c.Context(), raw)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}

	var claims Claims
	if err := token.Claims(&claims); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "malformed token claims")
	}

	c.Locals("uid", token.Subject)
	c.Locals("claims", claims)
	return c.Next()
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}

// UID returns the authenticated caller's uid from request locals.
func UID(c fiber.Ctx) string {
	uid, _ := c.Locals("uid").(string)
	return uid
}

// TokenClaims returns the caller's identity claims from request locals.
func TokenClaims(c fiber.Ctx) Claims {
	claims, _ := c.Locals("claims").(Claims)
	return claims
}
