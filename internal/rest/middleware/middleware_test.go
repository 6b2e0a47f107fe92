package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorbook/tutorbook/internal/auth"
	"github.com/tutorbook/tutorbook/internal/config"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/logger"
	"github.com/tutorbook/tutorbook/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(cfg *config.Configuration) *gin.Engine {
	log := logger.NewNopLogger()
	r := gin.New()
	r.Use(RequestIDMiddleware, ErrorHandler(log))

	private := r.Group("/", AuthenticateMiddleware(cfg, log))
	private.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tutor_id": types.GetTutorID(c.Request.Context())})
	})
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(ierr.NewError("number taken").
			WithHint("Invoice number already used").
			WithReportableDetails(map[string]any{"invoice_number": 1000}).
			Mark(ierr.ErrAlreadyExists))
	})
	return r
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ierr.ErrorResponse {
	var resp ierr.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAuthenticateMiddleware(t *testing.T) {
	cfg := config.GetDefaultConfig()
	r := newTestRouter(cfg)

	signup, err := auth.NewProvider(cfg).SignUp(context.Background(), auth.AuthRequest{
		Email:    "anna@lernstudio.example",
		Password: "Geheim!2024",
	})
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantHint   string
	}{
		{name: "missing_header", wantStatus: http.StatusUnauthorized, wantHint: "Unauthorized"},
		{name: "wrong_scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantHint: "Invalid authorization header format"},
		{name: "garbage_token", header: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized, wantHint: "Invalid token"},
		{name: "valid_token", header: "Bearer " + signup.AuthToken, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set(types.HeaderAuthorization, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				resp := decodeError(t, w)
				assert.False(t, resp.Success)
				assert.Equal(t, tt.wantHint, resp.Error.Display)
				return
			}

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, signup.TutorID, body["tutor_id"])
		})
	}
}

func TestErrorHandlerRendersHintAndDetails(t *testing.T) {
	r := newTestRouter(config.GetDefaultConfig())

	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "Invoice number already used", resp.Error.Display)
	assert.Equal(t, ierr.ErrCodeAlreadyExists, resp.Error.Code)
	assert.EqualValues(t, 1000, resp.Error.Details["invoice_number"])
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := newTestRouter(config.GetDefaultConfig())

	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	req.Header.Set(types.HeaderRequestID, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(types.HeaderRequestID))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.NotEmpty(t, w.Header().Get(types.HeaderRequestID))
}
