package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler serves the user inboxes and the shared admin inbox.
type NotificationHandler struct {
	service *services.NotificationService
	guards  Guards
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service *services.NotificationService, guards Guards) *NotificationHandler {
	return &NotificationHandler{service: service, guards: guards}
}

// RegisterRoutes registers both inboxes with the Fiber app.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	mine := router.Group("/notifications", h.guards.user()...)
	mine.Get("/", h.inbox(userAudience))
	mine.Put("/:id/read", h.markRead(userAudience))
	mine.Delete("/:id", h.remove(userAudience))

	admin := router.Group("/admin/notifications", h.guards.admin()...)
	admin.Get("/", h.inbox(adminAudience))
	admin.Put("/:id/read", h.markRead(adminAudience))
	admin.Delete("/:id", h.remove(adminAudience))
}

type audienceFunc func(c *fiber.Ctx) services.Audience

func userAudience(c *fiber.Ctx) services.Audience {
	user, _ := middleware.CurrentUser(c)
	return services.UserAudience(user.ID)
}

func adminAudience(*fiber.Ctx) services.Audience {
	return services.AdminAudience()
}

func (h *NotificationHandler) inbox(of audienceFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		notifications, err := h.service.Inbox(c.UserContext(), of(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(notifications)
	}
}

func (h *NotificationHandler) markRead(of audienceFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		notification, err := h.service.MarkRead(c.UserContext(), c.Params("id"), of(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(notification)
	}
}

func (h *NotificationHandler) remove(of audienceFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := h.service.Delete(c.UserContext(), c.Params("id"), of(c)); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Notification deleted successfully"})
	}
}
