package order

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Handler delegates order operations to the order service.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

// RegisterPublicRoutes exposes checkout; guests may place orders.
func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/orders", h.createOrder)
}

// RegisterProtectedRoutes exposes the admin order endpoints.
func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/orders", h.getOrders)
	app.Put("/api/orders/:id<int>/status", h.updateOrderStatus)
}

type createOrderRequest struct {
	Name           string        `json:"name"`
	Phone          string        `json:"phone"`
	Address        string        `json:"address"`
	DeliveryArea   string        `json:"delivery_area"`
	DeliveryCharge float64       `json:"delivery_charge"`
	TotalPrice     float64       `json:"totalPrice"`
	GrandTotal     float64       `json:"grandTotal"`
	Items          []LineRequest `json:"items"`
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	payload := new(createOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	info := DeliveryInfo{
		Name:           payload.Name,
		Phone:          payload.Phone,
		Address:        payload.Address,
		DeliveryArea:   payload.DeliveryArea,
		DeliveryCharge: payload.DeliveryCharge,
		TotalPrice:     payload.TotalPrice,
		GrandTotal:     payload.GrandTotal,
	}

	orderID, err := h.service.Place(c.UserContext(), info, payload.Items)
	if err != nil {
		var missing *VariantNotFoundError
		switch {
		case errors.Is(err, ErrNoItems):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No items in the order"})
		case errors.Is(err, ErrInvalidItem):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.As(err, &missing):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": missing.Error()})
		default:
			fmt.Printf("order placement failed: %v\n", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Order insert failed"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order placed successfully!",
		"orderId": orderID,
	})
}

func (h *Handler) getOrders(c *fiber.Ctx) error {
	orders, err := h.service.List(c.UserContext())
	if err != nil {
		fmt.Printf("fetch all orders failed: %v\n", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Fetch error"})
	}
	return c.JSON(orders)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateOrderStatus(c *fiber.Ctx) error {
	orderID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}

	payload := new(updateStatusRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	res, err := h.service.SetStatus(c.UserContext(), orderID, payload.Status)
	if err != nil {
		var inv *InventoryUpdateError
		switch {
		case errors.Is(err, ErrNoStatus):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
		case errors.As(err, &inv):
			fmt.Printf("inventory adjustment failed: %v\n", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Inventory update failed"})
		default:
			fmt.Printf("status update failed: %v\n", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update order status"})
		}
	}

	message := "Order status updated"
	if res.InventoryAdjusted {
		message = "Order status updated and inventory adjusted"
	}
	return c.JSON(fiber.Map{"message": message})
}
