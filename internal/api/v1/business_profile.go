package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tutorbook/tutorbook/internal/api/dto"
	"github.com/tutorbook/tutorbook/internal/logger"
	"github.com/tutorbook/tutorbook/internal/service"
)

type BusinessProfileHandler struct {
	service service.BusinessProfileService
	logger  *logger.Logger
}

func NewBusinessProfileHandler(service service.BusinessProfileService, logger *logger.Logger) *BusinessProfileHandler {
	return &BusinessProfileHandler{service: service, logger: logger}
}

// @Summary Get business profile
// @Tags BusinessProfile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.BusinessProfileResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /business-profile [get]
func (h *BusinessProfileHandler) GetBusinessProfile(c *gin.Context) {
	resp, err := h.service.GetBusinessProfile(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Create or update business profile
// @Description The profile is the sender of every invoice and holds the invoice counter
// @Tags BusinessProfile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body dto.UpsertBusinessProfileRequest true "Business profile"
// @Success 200 {object} dto.BusinessProfileResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /business-profile [put]
func (h *BusinessProfileHandler) UpsertBusinessProfile(c *gin.Context) {
	var req dto.UpsertBusinessProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidPayload(err))
		return
	}

	resp, err := h.service.UpsertBusinessProfile(c.Request.Context(), req)
	if err != nil {
		h.logger.Errorw("failed to upsert business profile", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Preview next invoice number
// @Description Informational only, the number is reserved when an invoice is created
// @Tags Invoices
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.NextInvoiceNumberResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /invoices/next-number [get]
func (h *BusinessProfileHandler) GetNextInvoiceNumber(c *gin.Context) {
	resp, err := h.service.GetNextInvoiceNumber(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
