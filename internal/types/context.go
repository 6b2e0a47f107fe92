package types

import (
	"context"
	"fmt"
)

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxRequestID     ContextKey = "ctx_request_id"
	CtxTutorID       ContextKey = "ctx_tutor_id"
	CtxDBTransaction ContextKey = "ctx_db_transaction"

	// Default values
	DefaultTutorID = "00000000-0000-0000-0000-000000000000"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"
)

// GetTutorID returns the authenticated tutor of the request
func GetTutorID(ctx context.Context) string {
	if tutorID, ok := ctx.Value(CtxTutorID).(string); ok {
		return tutorID
	}
	return ""
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

// SetTutorID sets the tutor ID in the context
func SetTutorID(ctx context.Context, tutorID string) context.Context {
	return context.WithValue(ctx, CtxTutorID, tutorID)
}

// ValidateTutorContext validates that the tutor owning the request is known
func ValidateTutorContext(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context is nil")
	}

	if GetTutorID(ctx) == "" {
		return fmt.Errorf("no tutor found in context")
	}

	return nil
}
