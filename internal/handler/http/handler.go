package http

import (
	"log/slog"

	"github.com/utafrali/storefront/internal/storefront"
)

// Handler exposes the storefront page controllers over JSON.
type Handler struct {
	service *storefront.Service
	logger  *slog.Logger
}

// NewHandler creates a storefront HTTP handler.
func NewHandler(svc *storefront.Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: svc,
		logger:  logger,
	}
}
