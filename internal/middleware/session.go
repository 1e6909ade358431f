// Package middleware provides the Fiber middleware shared by all routes:
// session decoding, role checks, rate limiting, tracing and request logging.
package middleware

import (
	"context"
	"strings"
	"time"

	"bizsite/internal/auth"
	"bizsite/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Fiber locals set by the session middleware.
const (
	LocalUserID  = "userID"
	LocalClaims  = "sessionClaims"
	LocalAdmin   = "adminUser"
	LocalTraceID = "traceID"
)

// SessionCookie describes the cookie carrying the session token.
type SessionCookie struct {
	Name   string
	Domain string
	Secure bool
}

// Set writes token with a lifetime of ttl.
func (sc SessionCookie) Set(c *fiber.Ctx, token string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     sc.Name,
		Value:    token,
		Path:     "/",
		Domain:   sc.Domain,
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		Secure:   sc.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Clear expires the cookie in the browser.
func (sc SessionCookie) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sc.Name,
		Value:    "",
		Path:     "/",
		Domain:   sc.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   sc.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Session decodes the session cookie, or a Bearer token when no cookie is
// sent, into Fiber locals. Requests without a valid token continue
// anonymously; protected routes add RequireAuth.
func Session(codec *auth.TokenCodec, cookie SessionCookie) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookie.Name)
		if token == "" {
			token = bearerToken(c.Get(fiber.HeaderAuthorization))
		}
		if token == "" {
			return c.Next()
		}

		claims, err := codec.Verify(token)
		if err != nil {
			return c.Next()
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalClaims, claims)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, claims.UserID))
		return c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// UserID returns the authenticated user id, if any.
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(LocalUserID).(uint)
	return id, ok && id != 0
}

// Claims returns the decoded session claims, or nil.
func Claims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(LocalClaims).(*auth.Claims)
	return claims
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(c *fiber.Ctx) error {
	if _, ok := UserID(c); !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError("Authentication required"))
	}
	return c.Next()
}

// RequireOnboarded rejects sessions that still have to pick a username.
func RequireOnboarded(c *fiber.Ctx) error {
	claims := Claims(c)
	if claims == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError("Authentication required"))
	}
	if claims.NeedsOnboarding {
		return models.RespondWithError(c, fiber.StatusForbidden, models.NewForbiddenError("Complete onboarding first"))
	}
	return c.Next()
}

// UserLookup loads the stored user behind a session.
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// AdminRequired checks the role stored for the session user, so role changes
// apply without a new login. It must run after RequireAuth.
func AdminRequired(users UserLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := UserID(c)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError("Authentication required"))
		}
		u, err := users.GetByID(c.UserContext(), id)
		if err != nil {
			if models.IsCode(err, models.CodeNotFound) {
				return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError("Authentication required"))
			}
			return models.RespondWithError(c, models.StatusFor(err), err)
		}
		if !u.IsAdmin() {
			return models.RespondWithError(c, fiber.StatusForbidden, models.NewForbiddenError("Admin access required"))
		}
		c.Locals(LocalAdmin, u)
		return c.Next()
	}
}

// AdminUser returns the user loaded by AdminRequired.
func AdminUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(LocalAdmin).(*models.User)
	return u
}
