package server

import (
	"bizsite/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPublicSettings handles GET /api/settings
// @Summary Site settings
// @Tags site
// @Produce json
// @Success 200 {object} object{success=bool,settings=models.Setting}
// @Router /settings [get]
func (s *Server) GetPublicSettings(c *fiber.Ctx) error {
	settings, err := s.settingsService.Get(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "settings", settings)
}

// GetSetupStatus handles GET /api/setup/status
// @Summary First-run status
// @Description needsSetup is true while no admin account exists.
// @Tags site
// @Produce json
// @Success 200 {object} object{success=bool,needsSetup=bool}
// @Router /setup/status [get]
func (s *Server) GetSetupStatus(c *fiber.Ctx) error {
	st, err := s.setupService.Status(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"needsSetup": st.NeedsSetup,
	})
}

// CreateFirstAdmin handles POST /api/setup and signs the new admin in.
// @Summary Create the first admin
// @Tags site
// @Accept json
// @Produce json
// @Param request body service.SetupInput true "Admin account"
// @Success 201 {object} object{success=bool,user=models.User,token=string}
// @Failure 403 {object} models.ErrorResponse
// @Router /setup [post]
func (s *Server) CreateFirstAdmin(c *fiber.Ctx) error {
	var in service.SetupInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	u, err := s.setupService.CreateFirstAdmin(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	token, err := s.authService.IssueSession(u, false)
	if err != nil {
		return fail(c, err)
	}
	return s.respondSession(c, fiber.StatusCreated, &service.AuthResult{
		User:            u,
		Token:           token,
		NeedsOnboarding: u.NeedsOnboarding(),
	})
}

// SubmitContact handles POST /api/contact
// @Summary Send a contact message
// @Tags site
// @Accept json
// @Produce json
// @Param request body service.ContactSubmission true "Message"
// @Success 201 {object} object{success=bool,message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /contact [post]
func (s *Server) SubmitContact(c *fiber.Ctx) error {
	var in service.ContactSubmission
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	in.IPAddress = c.IP()
	in.UserAgent = c.Get(fiber.HeaderUserAgent)
	if _, err := s.contactService.Submit(c.UserContext(), in); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Thanks, we will get back to you soon",
	})
}

// Tools

type totpRequest struct {
	Secret string `json:"secret"`
}

// GenerateTOTP handles POST /api/tools/totp
// @Summary Current TOTP code
// @Description Computes the 6-digit code for a base32 secret and the seconds left in its window.
// @Tags tools
// @Accept json
// @Produce json
// @Param request body totpRequest true "Secret"
// @Success 200 {object} object{success=bool,totp=service.TOTPResult}
// @Failure 400 {object} models.ErrorResponse
// @Router /tools/totp [post]
func (s *Server) GenerateTOTP(c *fiber.Ctx) error {
	var req totpRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	res, err := s.toolsService.TOTP(req.Secret)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "totp", res)
}

func (s *Server) GenerateTOTPSecret(c *fiber.Ctx) error {
	secret, err := s.toolsService.TOTPSecret()
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "secret", secret)
}

// GeneratePassword handles GET /api/tools/password. Symbols are included
// unless symbols=false.
func (s *Server) GeneratePassword(c *fiber.Ctx) error {
	opts := service.PasswordOptions{Symbols: true}
	if err := parseQuery(c, &opts); err != nil {
		return nil
	}
	pw, err := s.toolsService.Password(opts)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "password", pw)
}

func (s *Server) GenerateUUID(c *fiber.Ctx) error {
	return ok(c, fiber.StatusOK, "uuid", s.toolsService.UUID())
}

type slugifyRequest struct {
	Text string `json:"text"`
}

func (s *Server) Slugify(c *fiber.Ctx) error {
	var req slugifyRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	slug, err := s.toolsService.Slugify(req.Text)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "slug", slug)
}
