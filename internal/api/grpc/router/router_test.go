package router

import (
	"context"
	"testing"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/medcompanion/internal/api/grpc/accounts"
	"github.com/dtroode/medcompanion/internal/mocks"
	"github.com/dtroode/medcompanion/internal/testutil"
)

func TestRouter_Register(t *testing.T) {
	t.Parallel()

	ctxMgr := mocks.NewContextManager(t)
	lg := testutil.MakeNoopLogger()

	r := New(mocks.NewAccountsService(t), mocks.NewTokenService(t), ctxMgr, lg)
	s := r.Register()
	require.NotNil(t, s)

	info := s.GetServiceInfo()
	assert.Contains(t, info, accounts.ServiceName)
	assert.Contains(t, info, healthpb.Health_ServiceDesc.ServiceName)

	resp, err := r.Health().Check(context.Background(), &healthpb.HealthCheckRequest{Service: accounts.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestAuthRequired(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method string
		want   bool
	}{
		{method: accounts.FindByEmailFullMethodName, want: true},
		{method: accounts.SaveProfileFullMethodName, want: true},
		{method: "/grpc.health.v1.Health/Check", want: false},
		{method: "/grpc.health.v1.Health/Watch", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, authRequired(context.Background(), interceptors.NewServerCallMeta(tt.method, nil, nil)))
		})
	}
}
