package context

import (
	"context"

	"google.golang.org/grpc/metadata"
)

// callerKey is the incoming metadata key that carries the authenticated caller.
const callerKey = "x-medcompanion-caller"

// Manager stores the authenticated caller in incoming gRPC metadata.
type Manager struct{}

// NewManager creates a new gRPC context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetCallerToContext returns a copy of ctx whose incoming metadata names
// caller. Any caller a client tried to set itself is overwritten.
func (m *Manager) SetCallerToContext(ctx context.Context, caller string) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		md = metadata.New(nil)
	} else {
		md = md.Copy()
	}
	md.Set(callerKey, caller)

	return metadata.NewIncomingContext(ctx, md)
}

// GetCallerFromContext returns the caller set by SetCallerToContext.
func (m *Manager) GetCallerFromContext(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}

	callers := md.Get(callerKey)
	if len(callers) == 0 || callers[0] == "" {
		return "", false
	}

	return callers[0], true
}
