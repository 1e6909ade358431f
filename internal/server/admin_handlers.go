package server

import (
	"bizsite/internal/service"

	"github.com/gofiber/fiber/v2"
)

const defaultRequestLogLimit = 100

// GetDashboard handles GET /api/admin/dashboard
// @Summary Admin dashboard
// @Description Entity counts, license and contact breakdowns, recent activity and request stats.
// @Tags admin
// @Produce json
// @Success 200 {object} object{success=bool,dashboard=service.Dashboard}
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/dashboard [get]
func (s *Server) GetDashboard(c *fiber.Ctx) error {
	d, err := s.dashboardService.Get(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "dashboard", d)
}

// GetRequestLog handles GET /api/admin/requests. With after=<seq> it returns
// entries newer than seq, oldest first; otherwise the newest limit entries.
// @Summary Recent requests
// @Tags admin
// @Produce json
// @Param after query int false "Return entries after this sequence number"
// @Param limit query int false "Maximum entries"
// @Success 200 {object} object{success=bool,requests=[]requestlog.Entry}
// @Security BearerAuth
// @Router /admin/requests [get]
func (s *Server) GetRequestLog(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultRequestLogLimit)
	if limit <= 0 || limit > s.requests.Capacity() {
		limit = s.requests.Capacity()
	}

	entries := s.requests.Recent(limit)
	if after := c.QueryInt("after", -1); after >= 0 {
		entries = s.requests.After(uint64(after))
		if len(entries) > limit {
			entries = entries[len(entries)-limit:]
		}
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"requests": entries,
		"stats":    s.requests.Stats(10),
	})
}

func (s *Server) GetAdminSettings(c *fiber.Ctx) error {
	settings, err := s.settingsService.Get(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "settings", settings)
}

// UpdateSettings handles PUT /api/admin/settings
// @Summary Update site settings
// @Tags admin
// @Accept json
// @Produce json
// @Param request body service.SettingsInput true "Fields to change"
// @Success 200 {object} object{success=bool,settings=models.Setting}
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/settings [put]
func (s *Server) UpdateSettings(c *fiber.Ctx) error {
	var in service.SettingsInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	settings, err := s.settingsService.Update(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "settings", settings)
}

// Contacts

func (s *Server) ListContacts(c *fiber.Ctx) error {
	var in service.ListContactsInput
	if err := parseQuery(c, &in); err != nil {
		return nil
	}
	page, err := s.contactService.List(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return okPage(c, "contacts", page)
}

// GetContact handles GET /api/admin/contacts/:id. Opening a new message marks it read.
func (s *Server) GetContact(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	contact, err := s.contactService.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "contact", contact)
}

type contactStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateContact(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req contactStatusRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	contact, err := s.contactService.UpdateStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "contact", contact)
}

func (s *Server) DeleteContact(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.contactService.Delete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return okMessage(c, "Contact deleted")
}
