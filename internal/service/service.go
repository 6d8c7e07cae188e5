package service

import (
	"errors"

	"github.com/ozodbekAI/service/internal/repository"
)

// Sentinel kinds for the workflow error taxonomy. Handlers map these to
// HTTP statuses; the wrapped message is what goes in the response body.
var (
	ErrValidation        = errors.New("validation error")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
)

type domainError struct {
	kind error
	msg  string
}

func (e *domainError) Error() string { return e.msg }
func (e *domainError) Unwrap() error { return e.kind }

func validation(msg string) error {
	return &domainError{kind: ErrValidation, msg: msg}
}

func invalidTransition(msg string) error {
	return &domainError{kind: ErrInvalidTransition, msg: msg}
}

func forbidden(msg string) error {
	return &domainError{kind: ErrForbidden, msg: msg}
}

func conflict(msg string) error {
	return &domainError{kind: ErrConflict, msg: msg}
}

func insufficientStock(msg string) error {
	return &domainError{kind: repository.ErrInsufficientStock, msg: msg}
}

func notFound(msg string) error {
	return &domainError{kind: repository.ErrNotFound, msg: msg}
}

// Services bundles every domain service for route registration.
type Services struct {
	Auth         *AuthService
	Announcement *AnnouncementService
	Order        *OrderService
	Inventory    *InventoryService
	Product      *ProductService
	Notification *NotificationService
	Dashboard    *DashboardService
	Storage      *StorageService
}
