package server

import (
	"bizsite/internal/service"

	"github.com/gofiber/fiber/v2"
)

// LookupLicense handles GET /api/licenses/lookup?key=
// @Summary Look up a license key
// @Description Returns the effective status, product and expiry. The owner is never included.
// @Tags licenses
// @Produce json
// @Param key query string true "License key"
// @Success 200 {object} object{success=bool,license=service.LicenseLookup}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /licenses/lookup [get]
func (s *Server) LookupLicense(c *fiber.Ctx) error {
	l, err := s.licenseService.Lookup(c.UserContext(), c.Query("key"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "license", l)
}

type activateRequest struct {
	Key    string `json:"key"`
	Domain string `json:"domain"`
}

// ActivateLicense handles POST /api/licenses/activate
// @Summary Activate a license on a domain
// @Tags licenses
// @Accept json
// @Produce json
// @Param request body activateRequest true "Key and domain"
// @Success 200 {object} object{success=bool,license=service.LicenseLookup}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /licenses/activate [post]
func (s *Server) ActivateLicense(c *fiber.Ctx) error {
	var req activateRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	l, err := s.licenseService.Activate(c.UserContext(), req.Key, req.Domain)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "license", l)
}

// ListLicenses handles GET /api/admin/licenses
// @Summary List licenses
// @Tags admin
// @Produce json
// @Param status query string false "unused, active, expired or revoked"
// @Param productId query int false "Product"
// @Param userId query int false "Owner"
// @Param search query string false "Key, product name or notes"
// @Success 200 {object} object{success=bool,licenses=[]models.License}
// @Security BearerAuth
// @Router /admin/licenses [get]
func (s *Server) ListLicenses(c *fiber.Ctx) error {
	var in service.ListLicensesInput
	if err := parseQuery(c, &in); err != nil {
		return nil
	}
	page, err := s.licenseService.List(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return okPage(c, "licenses", page)
}

func (s *Server) GetLicense(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	l, err := s.licenseService.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "license", l)
}

// CreateLicense handles POST /api/admin/licenses. The key is generated.
// @Summary Issue a license
// @Tags admin
// @Accept json
// @Produce json
// @Param request body service.LicenseInput true "License"
// @Success 201 {object} object{success=bool,license=models.License}
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/licenses [post]
func (s *Server) CreateLicense(c *fiber.Ctx) error {
	var in service.LicenseInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	l, err := s.licenseService.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, "license", l)
}

func (s *Server) UpdateLicense(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var in service.LicenseInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	l, err := s.licenseService.Update(c.UserContext(), id, in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "license", l)
}

func (s *Server) DeleteLicense(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.licenseService.Delete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return okMessage(c, "License deleted")
}
