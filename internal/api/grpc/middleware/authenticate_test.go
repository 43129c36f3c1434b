package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/medcompanion/internal/mocks"
	"github.com/dtroode/medcompanion/internal/testutil"
)

func TestAuthenticate_AuthFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		mdAuthHeader string
		wantToken    string
		callerResult string
		callerErr    error
		wantErr      bool
	}{
		{
			name:    "missing authorization header",
			wantErr: true,
		},
		{
			name:         "empty bearer",
			mdAuthHeader: "Bearer ",
			wantErr:      true,
		},
		{
			name:         "invalid token",
			mdAuthHeader: "Bearer invalid",
			wantToken:    "invalid",
			callerErr:    assert.AnError,
			wantErr:      true,
		},
		{
			name:         "token without subject",
			mdAuthHeader: "Bearer token",
			wantToken:    "token",
			wantErr:      true,
		},
		{
			name:         "valid token",
			mdAuthHeader: "Bearer token",
			wantToken:    "token",
			callerResult: "companion",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lg := testutil.MakeNoopLogger()
			cm := mocks.NewContextManager(t)
			svc := mocks.NewTokenService(t)

			if tt.wantToken != "" {
				svc.On("GetCaller", mock.Anything, tt.wantToken).Return(tt.callerResult, tt.callerErr).Once()
			}
			if !tt.wantErr {
				cm.On("SetCallerToContext", mock.Anything, tt.callerResult).Return(context.Background()).Once()
			}

			m := NewAuthenticate(svc, cm, lg)

			ctx := context.Background()
			if tt.mdAuthHeader != "" {
				ctx = metadata.NewIncomingContext(ctx, metadata.Pairs("authorization", tt.mdAuthHeader))
			}

			newCtx, err := m.AuthFunc(ctx)

			if tt.wantErr {
				st, ok := status.FromError(err)
				assert.True(t, ok)
				assert.Equal(t, codes.Unauthenticated, st.Code())
				assert.Nil(t, newCtx)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, newCtx)
		})
	}
}
