package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ozodbekAI/service/internal/entity"
	"github.com/ozodbekAI/service/internal/repository"
	"github.com/ozodbekAI/service/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth         *AuthHandler
	Announcement *AnnouncementHandler
	Order        *OrderHandler
	Product      *ProductHandler
	Notification *NotificationHandler
	Dashboard    *DashboardHandler
}

func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(svc.Auth),
		Announcement: NewAnnouncementHandler(svc.Announcement, svc.Storage),
		Order:        NewOrderHandler(svc.Order),
		Product:      NewProductHandler(svc.Product, svc.Storage),
		Notification: NewNotificationHandler(svc.Notification),
		Dashboard:    NewDashboardHandler(svc.Dashboard),
	}
}

// respondError maps the service error taxonomy to HTTP statuses. The
// body is always {"detail": message}.
func respondError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, repository.ErrInsufficientStock),
		errors.Is(err, service.ErrConflict):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	default:
		status = http.StatusInternalServerError
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal server error"
	}
	if status == http.StatusNotFound && errors.Is(err, repository.ErrNotFound) && msg == repository.ErrNotFound.Error() {
		msg = "Not found."
	}
	c.JSON(status, gin.H{"detail": msg})
}

// GetUserID returns the authenticated user's id from the context.
func GetUserID(c *gin.Context) string {
	if id, ok := c.Get("user_id"); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

// GetUserRole returns the authenticated user's role from the context.
func GetUserRole(c *gin.Context) string {
	if role, ok := c.Get("user_role"); ok {
		if s, ok := role.(string); ok {
			return s
		}
	}
	return ""
}

// currentUser rebuilds the caller from JWT claims. Role scoping only
// needs the id and role, so no database read happens here.
func currentUser(c *gin.Context) *entity.User {
	return &entity.User{
		ID:       GetUserID(c),
		Username: c.GetString("user_name"),
		Email:    c.GetString("user_email"),
		Role:     GetUserRole(c),
	}
}
