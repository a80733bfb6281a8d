package product

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Handler delegates catalog operations to the product service.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/products", h.getProducts)
	app.Get("/api/products/search", h.searchProducts)
	app.Get("/api/products/trending", h.getTrendingProducts)
	// legacy storefront routes kept as aliases of the category listing
	app.Get("/api/products/dropshoulder", h.categoryAlias("Dropshoulder"))
	app.Get("/api/products/old-money-polo", h.categoryAlias("Old Money Polo"))
	app.Get("/api/products/category/:title", h.getProductsByCategory)
	app.Get("/api/products/:id<int>", h.getProduct)
	app.Get("/api/products/:id<int>/variants", h.getProductVariants)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/products", h.createProduct)
	app.Put("/api/products/:id<int>", h.updateProduct)
	app.Delete("/api/products/:id<int>", h.deleteProduct)
}

func (h *Handler) list(c *fiber.Ctx, f Filter) error {
	items, err := h.service.List(c.UserContext(), f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database query error"})
	}
	return c.JSON(items)
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	return h.list(c, Filter{})
}

func (h *Handler) getTrendingProducts(c *fiber.Ctx) error {
	return h.list(c, Filter{TrendingOnly: true})
}

func (h *Handler) searchProducts(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "search query is required"})
	}
	return h.list(c, Filter{Search: q})
}

func (h *Handler) getProductsByCategory(c *fiber.Ctx) error {
	return h.list(c, Filter{Category: c.Params("title")})
}

func (h *Handler) categoryAlias(title string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return h.list(c, Filter{Category: title})
	}
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}

	p, err := h.service.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(p)
}

func (h *Handler) getProductVariants(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}

	variants, err := h.service.ListVariants(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(variants)
}

type productRequest struct {
	Title             string  `json:"title"`
	Description       *string `json:"description"`
	ImageURL          *string `json:"imageUrl"`
	Price             float64 `json:"price"`
	Quantity          int     `json:"quantity"`
	AvailableQuantity int     `json:"available_quantity"`
	Color             *string `json:"color"`
	IsTrending        bool    `json:"is_trending"`
	CategoryIDs       []int   `json:"categoryIds"`
}

func (r productRequest) product() Product {
	return Product{
		Title:             r.Title,
		Description:       r.Description,
		ImageURL:          r.ImageURL,
		Price:             r.Price,
		Quantity:          r.Quantity,
		AvailableQuantity: r.AvailableQuantity,
		Color:             r.Color,
		IsTrending:        r.IsTrending,
	}
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	payload := new(productRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if payload.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}

	id, err := h.service.Create(c.UserContext(), payload.product(), payload.CategoryIDs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error on insert product"})
	}

	message := "Product created without categories"
	if len(payload.CategoryIDs) > 0 {
		message = "Product created with categories"
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": message, "productId": id})
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}

	payload := new(productRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.service.Update(c.UserContext(), id, payload.product()); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Update failed"})
	}
	return c.JSON(fiber.Map{"message": "Product updated successfully"})
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Delete failed"})
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}
