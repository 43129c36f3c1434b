package handler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/medcompanion/internal/model"
)

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       error
		wantCode codes.Code
		wantMsg  string
	}{
		{
			name:     "not found",
			in:       fmt.Errorf("failed to find: %w", model.ErrNotFound),
			wantCode: codes.NotFound,
			wantMsg:  "not found",
		},
		{
			name:     "email taken before validation",
			in:       model.ErrEmailTaken,
			wantCode: codes.AlreadyExists,
			wantMsg:  model.ErrEmailTaken.Error(),
		},
		{
			name:     "validation keeps detail",
			in:       fmt.Errorf("age must be between 1 and 120: %w", model.ErrValidation),
			wantCode: codes.InvalidArgument,
			wantMsg:  "age must be between 1 and 120: validation failed",
		},
		{
			name:     "authentication",
			in:       model.ErrAuthentication,
			wantCode: codes.Unauthenticated,
			wantMsg:  "invalid credentials",
		},
		{
			name:     "other -> Internal",
			in:       errors.New("boom"),
			wantCode: codes.Internal,
			wantMsg:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := handleError(tt.in)
			st, ok := status.FromError(err)
			assert.True(t, ok)
			assert.Equal(t, tt.wantCode, st.Code())
			assert.Equal(t, tt.wantMsg, st.Message())
		})
	}
}
