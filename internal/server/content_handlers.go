package server

import (
	"bizsite/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPublicCategories handles GET /api/categories
// @Summary List published categories
// @Tags content
// @Produce json
// @Param kind query string false "product, service, project or blog"
// @Success 200 {object} object{success=bool,categories=[]models.Category}
// @Router /categories [get]
func (s *Server) GetPublicCategories(c *fiber.Ctx) error {
	items, err := s.categoryService.ListPublic(c.UserContext(), c.Query("kind"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "categories", items)
}

// GetPublicProducts handles GET /api/products
// @Summary List published products
// @Tags content
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size (max 100)"
// @Param search query string false "Search term"
// @Param categoryId query int false "Category"
// @Success 200 {object} object{success=bool,products=[]models.Product}
// @Router /products [get]
func (s *Server) GetPublicProducts(c *fiber.Ctx) error {
	var in service.ListContentInput
	if err := parseQuery(c, &in); err != nil {
		return nil
	}
	page, err := s.productService.ListPublic(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return okPage(c, "products", page)
}

// GetPublicProduct handles GET /api/products/:slug
// @Summary Get a published product
// @Tags content
// @Produce json
// @Param slug path string true "Slug"
// @Success 200 {object} object{success=bool,product=models.Product}
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{slug} [get]
func (s *Server) GetPublicProduct(c *fiber.Ctx) error {
	p, err := s.productService.GetPublic(c.UserContext(), c.Params("slug"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "product", p)
}

// GetPublicServices handles GET /api/services
func (s *Server) GetPublicServices(c *fiber.Ctx) error {
	var in service.ListContentInput
	if err := parseQuery(c, &in); err != nil {
		return nil
	}
	page, err := s.offeringService.ListPublic(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return okPage(c, "services", page)
}

// GetPublicService handles GET /api/services/:slug
func (s *Server) GetPublicService(c *fiber.Ctx) error {
	svc, err := s.offeringService.GetPublic(c.UserContext(), c.Params("slug"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "service", svc)
}

// GetPublicProjects handles GET /api/projects
func (s *Server) GetPublicProjects(c *fiber.Ctx) error {
	var in service.ListContentInput
	if err := parseQuery(c, &in); err != nil {
		return nil
	}
	page, err := s.projectService.ListPublic(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return okPage(c, "projects", page)
}

// GetPublicProject handles GET /api/projects/:slug
func (s *Server) GetPublicProject(c *fiber.Ctx) error {
	p, err := s.projectService.GetPublic(c.UserContext(), c.Params("slug"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "project", p)
}

// GetPublicPosts handles GET /api/blog
// @Summary List published blog posts
// @Description Post bodies are omitted from the list.
// @Tags content
// @Produce json
// @Success 200 {object} object{success=bool,posts=[]models.BlogPost}
// @Router /blog [get]
func (s *Server) GetPublicPosts(c *fiber.Ctx) error {
	var in service.ListContentInput
	if err := parseQuery(c, &in); err != nil {
		return nil
	}
	page, err := s.blogService.ListPublic(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return okPage(c, "posts", page)
}

// GetPublicPost handles GET /api/blog/:slug and counts the view.
// @Summary Read a blog post
// @Tags content
// @Produce json
// @Param slug path string true "Slug"
// @Success 200 {object} object{success=bool,post=models.BlogPost}
// @Failure 404 {object} models.ErrorResponse
// @Router /blog/{slug} [get]
func (s *Server) GetPublicPost(c *fiber.Ctx) error {
	post, err := s.blogService.GetPublic(c.UserContext(), c.Params("slug"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "post", post)
}

// Admin: categories

// ListCategories handles GET /api/admin/categories
// @Summary List categories
// @Tags admin
// @Produce json
// @Param kind query string false "Kind"
// @Param status query string false "Status"
// @Success 200 {object} object{success=bool,categories=[]models.Category}
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/categories [get]
func (s *Server) ListCategories(c *fiber.Ctx) error {
	var in service.ListCategoriesInput
	if err := parseQuery(c, &in); err != nil {
		return nil
	}
	page, err := s.categoryService.List(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return okPage(c, "categories", page)
}

func (s *Server) GetCategory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	cat, err := s.categoryService.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "category", cat)
}

func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var in service.CategoryInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	cat, err := s.categoryService.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, "category", cat)
}

func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var in service.CategoryInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	cat, err := s.categoryService.Update(c.UserContext(), id, in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "category", cat)
}

func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.categoryService.Delete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return okMessage(c, "Category deleted")
}

// Admin: products

// ListProducts handles GET /api/admin/products
// @Summary List products
// @Tags admin
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size (max 100)"
// @Param search query string false "Search term"
// @Param status query string false "draft, published or archived"
// @Param categoryId query int false "Category"
// @Param featured query bool false "Featured only"
// @Success 200 {object} object{success=bool,products=[]models.Product}
// @Security BearerAuth
// @Router /admin/products [get]
func (s *Server) ListProducts(c *fiber.Ctx) error {
	var in service.ListContentInput
	if err := parseQuery(c, &in); err != nil {
		return nil
	}
	page, err := s.productService.List(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return okPage(c, "products", page)
}

func (s *Server) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	p, err := s.productService.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "product", p)
}

// CreateProduct handles POST /api/admin/products
// @Summary Create a product
// @Tags admin
// @Accept json
// @Produce json
// @Param request body service.ProductInput true "Product"
// @Success 201 {object} object{success=bool,product=models.Product}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/products [post]
func (s *Server) CreateProduct(c *fiber.Ctx) error {
	var in service.ProductInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	p, err := s.productService.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, "product", p)
}

func (s *Server) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var in service.ProductInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	p, err := s.productService.Update(c.UserContext(), id, in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "product", p)
}

func (s *Server) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.productService.Delete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return okMessage(c, "Product deleted")
}

// Admin: services

func (s *Server) ListServices(c *fiber.Ctx) error {
	var in service.ListContentInput
	if err := parseQuery(c, &in); err != nil {
		return nil
	}
	page, err := s.offeringService.List(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return okPage(c, "services", page)
}

func (s *Server) GetService(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	svc, err := s.offeringService.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "service", svc)
}

func (s *Server) CreateService(c *fiber.Ctx) error {
	var in service.OfferingInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	svc, err := s.offeringService.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, "service", svc)
}

func (s *Server) UpdateService(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var in service.OfferingInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	svc, err := s.offeringService.Update(c.UserContext(), id, in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "service", svc)
}

func (s *Server) DeleteService(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.offeringService.Delete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return okMessage(c, "Service deleted")
}

// Admin: projects

func (s *Server) ListProjects(c *fiber.Ctx) error {
	var in service.ListContentInput
	if err := parseQuery(c, &in); err != nil {
		return nil
	}
	page, err := s.projectService.List(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return okPage(c, "projects", page)
}

func (s *Server) GetProject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	p, err := s.projectService.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "project", p)
}

func (s *Server) CreateProject(c *fiber.Ctx) error {
	var in service.ProjectInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	p, err := s.projectService.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, "project", p)
}

func (s *Server) UpdateProject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var in service.ProjectInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	p, err := s.projectService.Update(c.UserContext(), id, in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "project", p)
}

func (s *Server) DeleteProject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.projectService.Delete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return okMessage(c, "Project deleted")
}

// Admin: blog

func (s *Server) ListPosts(c *fiber.Ctx) error {
	var in service.ListContentInput
	if err := parseQuery(c, &in); err != nil {
		return nil
	}
	page, err := s.blogService.List(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return okPage(c, "posts", page)
}

func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.blogService.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "post", post)
}

// CreatePost handles POST /api/admin/blog. The session user becomes the author.
// @Summary Create a blog post
// @Tags admin
// @Accept json
// @Produce json
// @Param request body service.BlogPostInput true "Post"
// @Success 201 {object} object{success=bool,post=models.BlogPost}
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/blog [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var in service.BlogPostInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	post, err := s.blogService.Create(c.UserContext(), actorID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, "post", post)
}

func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var in service.BlogPostInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	post, err := s.blogService.Update(c.UserContext(), id, in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "post", post)
}

func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.blogService.Delete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return okMessage(c, "Post deleted")
}
