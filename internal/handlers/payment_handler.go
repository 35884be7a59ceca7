package handlers

import (
	"log"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	service  *services.PaymentService
	guards   Guards
	validate *validator.Validate
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *services.PaymentService, guards Guards) *PaymentHandler {
	return &PaymentHandler{service: service, guards: guards, validate: validator.New()}
}

// RegisterRoutes registers the payment routes with the Fiber app.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	paymentRoutes := router.Group("/payments")
	paymentRoutes.Get("/admin/all", h.guards.admin(h.HandleGetAllPayments)...)
	paymentRoutes.Post("/:paymentId/generate-qr", h.guards.user(h.HandleGenerateQR)...)
	paymentRoutes.Post("/:paymentId/confirm", h.guards.user(h.HandleConfirm)...)
	paymentRoutes.Get("/:paymentId", h.guards.user(h.HandleGetPayment)...)
	paymentRoutes.Put("/:paymentId/status", h.guards.admin(h.HandleUpdateStatus)...)
	paymentRoutes.Delete("/:paymentId", h.guards.admin(h.HandleDeletePayment)...)
}

// HandleGenerateQR renders the QR code for the caller's online payment.
func (h *PaymentHandler) HandleGenerateQR(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	result, err := h.service.GenerateQR(c.UserContext(), user, c.Params("paymentId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// HandleGetPayment retrieves a single payment for its owner or an admin.
func (h *PaymentHandler) HandleGetPayment(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	payment, err := h.service.GetPayment(c.UserContext(), user, c.Params("paymentId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(payment)
}

// HandleConfirm is the customer's confirmation of an online payment.
func (h *PaymentHandler) HandleConfirm(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	result, err := h.service.ConfirmPayment(c.UserContext(), user, c.Params("paymentId"))
	if err != nil {
		log.Printf("Error confirming payment %s for user %s: %v", c.Params("paymentId"), user.ID, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":     "Payment confirmed successfully",
		"payment":     result.Payment,
		"order":       result.Order,
		"orderNumber": result.OrderNumber,
	})
}

// paymentStatusRequest accepts the admin flags from the body; the same flags may be
// given as query parameters.
type paymentStatusRequest struct {
	Status           models.PaymentStatus `json:"status" validate:"required"`
	SetOrderStatus   models.OrderStatus   `json:"setOrderStatus"`
	SkipNotification bool                 `json:"skipNotification"`
}

// HandleUpdateStatus is the admin override of a payment's status.
func (h *PaymentHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req paymentStatusRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}
	opts := services.PaymentStatusOptions{
		SetOrderStatus:   req.SetOrderStatus,
		SkipNotification: req.SkipNotification || c.Query("skipNotification") == "true",
	}
	if q := c.Query("setOrderStatus"); q != "" {
		opts.SetOrderStatus = models.OrderStatus(q)
	}

	payment, err := h.service.SetPaymentStatus(c.UserContext(), c.Params("paymentId"), req.Status, opts)
	if err != nil {
		log.Printf("Error updating payment status for %s: %v", c.Params("paymentId"), err)
		return respondError(c, err)
	}
	return c.JSON(payment)
}

// HandleGetAllPayments lists every payment for the back office.
func (h *PaymentHandler) HandleGetAllPayments(c *fiber.Ctx) error {
	payments, err := h.service.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(payments)
}

// HandleDeletePayment removes a payment and unlinks it from its order.
func (h *PaymentHandler) HandleDeletePayment(c *fiber.Ctx) error {
	if err := h.service.DeletePayment(c.UserContext(), c.Params("paymentId")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Payment deleted successfully"})
}
