package context

import (
	stdctx "context"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/metadata"
)

func TestManager_SetAndGetCaller(t *testing.T) {
	m := NewManager()
	ctx := m.SetCallerToContext(stdctx.Background(), "companion")

	got, ok := m.GetCallerFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "companion", got)
}

func TestManager_GetCaller_NotFound(t *testing.T) {
	m := NewManager()
	_, ok := m.GetCallerFromContext(stdctx.Background())
	assert.False(t, ok)

	ctx := metadata.NewIncomingContext(stdctx.Background(), metadata.Pairs("x-trace-id", "t"))
	_, ok = m.GetCallerFromContext(ctx)
	assert.False(t, ok)
}

func TestManager_SetCaller_WithExistingMetadata(t *testing.T) {
	m := NewManager()
	baseMD := metadata.New(map[string]string{"x-trace-id": "t"})
	ctxWithMD := metadata.NewIncomingContext(stdctx.Background(), baseMD)

	ctx := m.SetCallerToContext(ctxWithMD, "companion")

	got, ok := m.GetCallerFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "companion", got)

	md, _ := metadata.FromIncomingContext(ctx)
	assert.Equal(t, []string{"t"}, md.Get("x-trace-id"))
	assert.Empty(t, baseMD.Get(callerKey))
}

func TestManager_SetCaller_OverridesClientValue(t *testing.T) {
	m := NewManager()
	spoofed := metadata.NewIncomingContext(stdctx.Background(), metadata.Pairs(callerKey, "admin"))

	ctx := m.SetCallerToContext(spoofed, "companion")

	got, ok := m.GetCallerFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "companion", got)
}
