package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler serves the caller's cart.
type CartHandler struct {
	service  *services.CartService
	guards   Guards
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, guards Guards) *CartHandler {
	return &CartHandler{service: service, guards: guards, validate: validator.New()}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart", h.guards.user()...)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/add", h.HandleAdd)
	cartRoutes.Put("/update/:itemId", h.HandleUpdate)
	cartRoutes.Delete("/remove/:itemId", h.HandleRemove)
	cartRoutes.Delete("/clear", h.HandleClear)
}

type addToCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1"`
}

type updateCartRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	items, err := h.service.GetCart(c.UserContext(), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

func (h *CartHandler) HandleAdd(c *fiber.Ctx) error {
	var req addToCartRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}
	user, _ := middleware.CurrentUser(c)
	items, err := h.service.AddItem(c.UserContext(), user.ID, req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

func (h *CartHandler) HandleUpdate(c *fiber.Ctx) error {
	var req updateCartRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}
	user, _ := middleware.CurrentUser(c)
	items, err := h.service.UpdateItem(c.UserContext(), user.ID, c.Params("itemId"), req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

func (h *CartHandler) HandleRemove(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	items, err := h.service.RemoveItem(c.UserContext(), user.ID, c.Params("itemId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	if err := h.service.Clear(c.UserContext(), user.ID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Cart cleared"})
}
