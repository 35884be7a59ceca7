package handlers

import (
	"log"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	guards   Guards
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, guards Guards) *OrderHandler {
	return &OrderHandler{
		service:  service,
		guards:   guards,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
// Static segments are registered before /:id so they are not captured as ids.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")

	create := []fiber.Handler{h.guards.Auth}
	if h.guards.Checkout != nil {
		create = append(create, h.guards.Checkout)
	}
	orderRoutes.Post("/", append(create, h.HandleCreateOrder)...)
	orderRoutes.Get("/my-orders", h.guards.user(h.HandleGetMyOrders)...)
	orderRoutes.Get("/admin/all", h.guards.admin(h.HandleGetAllOrders)...)
	orderRoutes.Get("/:id", h.guards.user(h.HandleGetOrderByID)...)
	orderRoutes.Put("/:id/status", h.guards.admin(h.HandleUpdateOrderStatus)...)
	orderRoutes.Delete("/:id", h.guards.admin(h.HandleDeleteOrder)...)
}

// HandleCreateOrder checks out the caller's cart, or the items given in the body.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req services.CreateOrderInput
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	user, _ := middleware.CurrentUser(c)
	result, err := h.service.CreateOrder(c.UserContext(), user, req)
	if err != nil {
		log.Printf("Error creating order for user %s: %v", user.ID, err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleGetMyOrders lists the caller's orders, newest first.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	orders, err := h.service.ListMine(c.UserContext(), user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetAllOrders lists every order for the back office.
func (h *OrderHandler) HandleGetAllOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order for its owner or an admin.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	order, err := h.service.GetOrder(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

type orderStatusRequest struct {
	OrderStatus models.OrderStatus `json:"order_status" validate:"required"`
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req orderStatusRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	order, err := h.service.SetOrderStatus(c.UserContext(), c.Params("id"), req.OrderStatus)
	if err != nil {
		log.Printf("Error updating order status for order %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleDeleteOrder removes an order and its payment.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	if err := h.service.DeleteOrder(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order deleted successfully"})
}
