package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/medcompanion/internal/mocks"
	"github.com/dtroode/medcompanion/internal/testutil"
)

func TestTokenService_Issue(t *testing.T) {
	manager := mocks.NewTokenManager(t)
	manager.On("GenerateServiceToken", "companion").Return("token", nil).Once()

	svc := NewTokenService(manager, testutil.MakeNoopLogger())

	token, err := svc.Issue("companion")
	require.NoError(t, err)
	assert.Equal(t, "token", token)
}

func TestTokenService_Issue_ManagerError(t *testing.T) {
	manager := mocks.NewTokenManager(t)
	manager.On("GenerateServiceToken", "").Return("", assert.AnError).Once()

	svc := NewTokenService(manager, testutil.MakeNoopLogger())

	_, err := svc.Issue("")
	require.ErrorIs(t, err, assert.AnError)
}

func TestTokenService_GetCaller(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		manager := mocks.NewTokenManager(t)
		manager.On("ParseServiceToken", "good").Return("companion", nil).Once()

		svc := NewTokenService(manager, testutil.MakeNoopLogger())

		caller, err := svc.GetCaller(ctx, "good")
		require.NoError(t, err)
		assert.Equal(t, "companion", caller)
	})

	t.Run("invalid token", func(t *testing.T) {
		manager := mocks.NewTokenManager(t)
		manager.On("ParseServiceToken", "bad").Return("", assert.AnError).Once()

		svc := NewTokenService(manager, testutil.MakeNoopLogger())

		_, err := svc.GetCaller(ctx, "bad")
		require.ErrorIs(t, err, assert.AnError)
	})
}
