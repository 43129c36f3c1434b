package middleware

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/medcompanion/internal/logger"
	"github.com/dtroode/medcompanion/internal/model"
)

var (
	errMissingToken = errors.New("missing authorization token")
	errInvalidToken = errors.New("invalid authorization token")
)

// TokenService resolves the caller behind a bearer token.
type TokenService interface {
	GetCaller(ctx context.Context, token string) (string, error)
}

// Authenticate validates bearer tokens and injects the caller into context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// AuthFunc parses the authorization header, validates the token and
// returns a context carrying the caller.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	var tokenString string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if authHeaders := md.Get("authorization"); len(authHeaders) > 0 {
			tokenString = strings.TrimSpace(strings.TrimPrefix(authHeaders[0], "Bearer "))
		}
	}

	caller, err := m.authenticateCaller(ctx, tokenString)
	if err != nil {
		m.logger.Warn("Authenticate middleware: request rejected",
			"error", err.Error())
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	return m.contextManager.SetCallerToContext(ctx, caller), nil
}

func (m *Authenticate) authenticateCaller(ctx context.Context, tokenString string) (string, error) {
	if tokenString == "" {
		return "", errMissingToken
	}

	caller, err := m.tokenService.GetCaller(ctx, tokenString)
	if err != nil || caller == "" {
		return "", errInvalidToken
	}

	return caller, nil
}
