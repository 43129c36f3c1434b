package service

import (
	"context"
	"fmt"

	"github.com/dtroode/medcompanion/internal/logger"
	"github.com/dtroode/medcompanion/internal/model"
)

// TokenService issues service tokens and resolves the caller behind them.
type TokenService struct {
	manager model.TokenManager
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, logger: logger}
}

// Issue returns a bearer token for subject.
func (s *TokenService) Issue(subject string) (string, error) {
	token, err := s.manager.GenerateServiceToken(subject)
	if err != nil {
		return "", fmt.Errorf("issue service token: %w", err)
	}

	s.logger.Info("Token service: issued service token",
		"subject", subject)

	return token, nil
}

// GetCaller returns the subject of a valid service token.
func (s *TokenService) GetCaller(_ context.Context, token string) (string, error) {
	subject, err := s.manager.ParseServiceToken(token)
	if err != nil {
		s.logger.Debug("Token service: rejected token",
			"error", err.Error())
		return "", err
	}
	return subject, nil
}
