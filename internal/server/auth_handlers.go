package server

import (
	"net/url"

	"bizsite/internal/middleware"
	"bizsite/internal/service"

	"github.com/gofiber/fiber/v2"
)

// respondSession sets the session cookie for res and writes the user.
func (s *Server) respondSession(c *fiber.Ctx, status int, res *service.AuthResult) error {
	s.cookie.Set(c, res.Token, s.tokens.TTL())
	return c.Status(status).JSON(fiber.Map{
		"success":         true,
		"user":            res.User,
		"token":           res.Token,
		"needsOnboarding": res.NeedsOnboarding,
	})
}

// Register handles POST /api/auth/register
// @Summary Register
// @Description Create a local account when registration is enabled
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Registration"
// @Success 201 {object} object{success=bool,user=models.User,token=string,needsOnboarding=bool}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	res, err := s.authService.Register(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return s.respondSession(c, fiber.StatusCreated, res)
}

// Login handles POST /api/auth/login
// @Summary Login
// @Description Authenticate with email or username and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "Credentials"
// @Success 200 {object} object{success=bool,user=models.User,token=string,needsOnboarding=bool}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	res, err := s.authService.Login(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return s.respondSession(c, fiber.StatusOK, res)
}

// Logout handles POST /api/auth/logout
// @Summary Logout
// @Tags auth
// @Produce json
// @Success 200 {object} object{success=bool,message=string}
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	s.cookie.Clear(c)
	return okMessage(c, "Logged out")
}

// Me handles GET /api/auth/me
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} object{success=bool,user=models.User,needsOnboarding=bool}
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (s *Server) Me(c *fiber.Ctx) error {
	u, err := s.authService.Me(c.UserContext(), actorID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":         true,
		"user":            u,
		"needsOnboarding": u.NeedsOnboarding(),
	})
}

// GetProviders handles GET /api/auth/providers
func (s *Server) GetProviders(c *fiber.Ctx) error {
	return ok(c, fiber.StatusOK, "providers", s.authService.Providers())
}

// CompleteOnboarding handles POST /api/auth/onboarding
// @Summary Complete onboarding
// @Description Pick a username after the first OAuth login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.OnboardingInput true "Profile"
// @Success 200 {object} object{success=bool,user=models.User,token=string,needsOnboarding=bool}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /auth/onboarding [post]
func (s *Server) CompleteOnboarding(c *fiber.Ctx) error {
	var req service.OnboardingInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	res, err := s.authService.CompleteOnboarding(c.UserContext(), actorID(c), req)
	if err != nil {
		return fail(c, err)
	}
	return s.respondSession(c, fiber.StatusOK, res)
}

// BeginOAuth handles GET /api/auth/:provider by redirecting to the provider.
// @Summary Start OAuth login
// @Tags auth
// @Param provider path string true "github or google"
// @Success 302
// @Failure 404 {object} models.ErrorResponse
// @Router /auth/{provider} [get]
func (s *Server) BeginOAuth(c *fiber.Ctx) error {
	target, err := s.authService.BeginOAuth(c.UserContext(), c.Params("provider"))
	if err != nil {
		return fail(c, err)
	}
	return c.Redirect(target, fiber.StatusFound)
}

// OAuthCallback handles GET /api/auth/:provider/callback. It always
// redirects back to the site; failures land on the login page.
// @Summary OAuth callback
// @Tags auth
// @Param provider path string true "github or google"
// @Param code query string true "Authorization code"
// @Param state query string true "State"
// @Success 302
// @Router /auth/{provider}/callback [get]
func (s *Server) OAuthCallback(c *fiber.Ctx) error {
	ctx := c.UserContext()
	provider := c.Params("provider")

	if denied := c.Query("error"); denied != "" {
		middleware.Logger.WarnContext(ctx, "oauth denied by provider", "provider", provider, "error", denied)
		return c.Redirect(s.failedLoginURL(), fiber.StatusFound)
	}

	res, err := s.authService.HandleCallback(ctx, provider, c.Query("code"), c.Query("state"))
	if err != nil {
		middleware.Logger.WarnContext(ctx, "oauth callback failed", "provider", provider, "error", err)
		return c.Redirect(s.failedLoginURL(), fiber.StatusFound)
	}

	s.cookie.Set(c, res.Token, s.tokens.TTL())
	target := s.config.PublicURL + "/"
	if res.NeedsOnboarding {
		target = s.config.PublicURL + "/onboarding"
	}
	return c.Redirect(target, fiber.StatusFound)
}

func (s *Server) failedLoginURL() string {
	return s.config.PublicURL + "/login?error=" + url.QueryEscape("oauth_failed")
}
