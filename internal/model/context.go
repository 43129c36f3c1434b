package model

import "context"

// ContextManager carries the authenticated caller through request contexts.
type ContextManager interface {
	SetCallerToContext(ctx context.Context, caller string) context.Context
	GetCallerFromContext(ctx context.Context) (string, bool)
}
