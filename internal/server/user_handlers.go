package server

import (
	"bizsite/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListUsers handles GET /api/admin/users
// @Summary List users
// @Tags admin
// @Produce json
// @Param search query string false "Email, username or full name"
// @Param role query string false "user or admin"
// @Param provider query string false "local, github or google"
// @Param active query bool false "Active flag"
// @Success 200 {object} object{success=bool,users=[]models.User}
// @Security BearerAuth
// @Router /admin/users [get]
func (s *Server) ListUsers(c *fiber.Ctx) error {
	var in service.ListUsersInput
	if err := parseQuery(c, &in); err != nil {
		return nil
	}
	page, err := s.userService.List(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return okPage(c, "users", page)
}

func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	u, err := s.userService.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "user", u)
}

func (s *Server) CreateUser(c *fiber.Ctx) error {
	var in service.CreateUserInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	u, err := s.userService.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, "user", u)
}

// UpdateUser handles PATCH /api/admin/users/:id
// @Summary Update a user
// @Description Admins cannot demote or deactivate themselves.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body service.UpdateUserInput true "Fields to change"
// @Success 200 {object} object{success=bool,user=models.User}
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id} [patch]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var in service.UpdateUserInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	u, err := s.userService.Update(c.UserContext(), actorID(c), id, in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "user", u)
}

func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.userService.Delete(c.UserContext(), actorID(c), id); err != nil {
		return fail(c, err)
	}
	return okMessage(c, "User deleted")
}
