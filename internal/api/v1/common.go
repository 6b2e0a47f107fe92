package v1

import (
	"github.com/gin-gonic/gin"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/types"
)

// dateQuery reads an optional YYYY-MM-DD query parameter
func dateQuery(c *gin.Context, key string) (*types.Date, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := types.ParseDate(raw)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("%s must be a date in the format YYYY-MM-DD", key).
			WithReportableDetails(map[string]any{key: raw}).
			Mark(ierr.ErrValidation)
	}
	return &d, nil
}

func invalidPayload(err error) error {
	return ierr.WithError(err).
		WithHint("Please check the request payload").
		Mark(ierr.ErrValidation)
}

func invalidQuery(err error) error {
	return ierr.WithError(err).
		WithHint("invalid query parameters").
		Mark(ierr.ErrValidation)
}

func requireID(c *gin.Context, entity string) (string, bool) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewErrorf("invalid %s id", entity).
			WithHintf("invalid %s id", entity).
			Mark(ierr.ErrValidation))
		return "", false
	}
	return id, true
}
