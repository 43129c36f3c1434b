package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/medcompanion/internal/api/grpc/accounts"
	"github.com/dtroode/medcompanion/internal/api/grpc/handler"
	"github.com/dtroode/medcompanion/internal/api/grpc/middleware"
	"github.com/dtroode/medcompanion/internal/logger"
	"github.com/dtroode/medcompanion/internal/model"
)

// Router builds the accounts gRPC server with its interceptors.
type Router struct {
	accountsService handler.AccountsService
	tokenService    middleware.TokenService
	contextManager  model.ContextManager
	logger          *logger.Logger
	health          *health.Server
}

// New creates new gRPC Router instance.
func New(
	accountsService handler.AccountsService,
	tokenService middleware.TokenService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		accountsService: accountsService,
		tokenService:    tokenService,
		contextManager:  contextManager,
		logger:          logger,
		health:          health.NewServer(),
	}
}

// authRequired exempts the health service from bearer authentication.
func authRequired(_ context.Context, c interceptors.CallMeta) bool {
	return !strings.HasPrefix(c.FullMethod(), "/"+healthpb.Health_ServiceDesc.ServiceName+"/")
}

// Register creates the gRPC server and registers every service on it.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(authRequired),
			),
		),
		grpc.ChainStreamInterceptor(
			selector.StreamServerInterceptor(
				auth.StreamServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(authRequired),
			),
		),
	)
	r.registerAccountsRoutes(s)
	r.registerHealthRoutes(s)

	return s
}

// Health returns the health server so the caller can flip serving status
// on shutdown.
func (r *Router) Health() *health.Server {
	return r.health
}

func (r *Router) registerAccountsRoutes(server *grpc.Server) {
	accountsHandler := handler.NewAccounts(r.accountsService, r.contextManager, r.logger)
	accounts.RegisterAccountsServer(server, accountsHandler)
	r.health.SetServingStatus(accounts.ServiceName, healthpb.HealthCheckResponse_SERVING)
}

func (r *Router) registerHealthRoutes(server *grpc.Server) {
	healthpb.RegisterHealthServer(server, r.health)
}
