package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorbook/tutorbook/internal/api/dto"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/logger"
	"github.com/tutorbook/tutorbook/internal/rest/middleware"
	"github.com/tutorbook/tutorbook/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// validatingInvoiceService stops after request validation
type validatingInvoiceService struct {
	service.InvoiceService
	created int
}

func (s *validatingInvoiceService) CreateInvoice(_ context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	s.created++
	return &dto.InvoiceResponse{}, nil
}

func postInvoice(t *testing.T, svc service.InvoiceService, body string) *httptest.ResponseRecorder {
	log := logger.NewNopLogger()
	r := gin.New()
	r.Use(middleware.ErrorHandler(log))
	r.POST("/invoices", NewInvoiceHandler(svc, log).CreateInvoice)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateInvoiceNamesMalformedQuantity(t *testing.T) {
	svc := &validatingInvoiceService{}
	w := postInvoice(t, svc, `{"items": [
		{"description": "Mathe", "quantity": 1, "unit": "HOUR", "unit_price": 45},
		{"description": "Physik", "quantity": "abc", "unit": "HOUR", "unit_price": 45}
	]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.created)

	var resp ierr.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ierr.ErrCodeValidation, resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "items[1].quantity")
	assert.NotContains(t, resp.Error.Details, "items[0].quantity")
}

func TestCreateInvoiceAcceptsNumericStrings(t *testing.T) {
	svc := &validatingInvoiceService{}
	w := postInvoice(t, svc, `{"items": [{"description": "Mathe", "quantity": "1.5", "unit": "HOUR", "unit_price": 45}]}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, svc.created)
}
