package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const credentialKey = "auth_credential"

// CredentialMiddleware captures the caller's bearer credential from the
// configured cookie, falling back to an Authorization header. Requests
// without one pass through untouched.
type CredentialMiddleware struct {
	cookieName string
}

// NewCredentialMiddleware constructs middleware.
func NewCredentialMiddleware(cookieName string) *CredentialMiddleware {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &CredentialMiddleware{cookieName: cookieName}
}

// Handle stores the credential, if any, in the request locals.
func (m *CredentialMiddleware) Handle(c *fiber.Ctx) error {
	if token := strings.TrimSpace(c.Cookies(m.cookieName)); token != "" {
		c.Locals(credentialKey, token)
		return c.Next()
	}

	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && strings.TrimSpace(parts[1]) != "" {
		c.Locals(credentialKey, strings.TrimSpace(parts[1]))
	}
	return c.Next()
}

// CredentialFromContext exposes the captured credential as a provider.
func CredentialFromContext(c *fiber.Ctx) CredentialProvider {
	token, _ := c.Locals(credentialKey).(string)
	return CredentialFunc(func(context.Context) (string, bool) {
		return token, token != ""
	})
}
