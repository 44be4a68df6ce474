package qrcode

import (
	"errors"
	"net/http"

	"opinor/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the scan endpoint customers hit when they
// open a QR code.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/qr/:code/scan", h.Scan)
}

// RegisterOwnerRoutes mounts the dashboard QR info endpoint.
func (h *Handler) RegisterOwnerRoutes(rg *gin.RouterGroup) {
	rg.GET("/qr", h.OwnerQR)
}

// Scan records the scan and redirects the customer's browser to the
// feedback page.
func (h *Handler) Scan(c *gin.Context) {
	target, err := h.service.RecordScan(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, ErrBusinessNotFound) {
			response.Error(c, http.StatusNotFound, "Business not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to process scan")
		return
	}
	c.Redirect(http.StatusFound, target)
}

func (h *Handler) OwnerQR(c *gin.Context) {
	info, err := h.service.OwnerQR(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to load QR info")
		return
	}
	response.Success(c, http.StatusOK, info)
}
