package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/medcompanion/internal/model"
)

func TestStore_Roundtrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.Get(ctx, "@user")
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, s.Set(ctx, "@user", `{"id":"1"}`))
	got, err := s.Get(ctx, "@user")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, got)

	require.NoError(t, s.Remove(ctx, "@user"))
	require.NoError(t, s.Remove(ctx, "@user"))
	_, err = s.Get(ctx, "@user")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
