package testutil

import (
	"context"

	"github.com/tutorbook/tutorbook/internal/types"
)

// DefaultTestTutorID owns the records of SetupContext
const DefaultTestTutorID = "tut_test"

func SetupContext() context.Context {
	return ContextForTutor(DefaultTestTutorID)
}

// ContextForTutor returns a request context authenticated as tutorID
func ContextForTutor(tutorID string) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxTutorID, tutorID)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	return ctx
}
