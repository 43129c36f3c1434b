package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dtroode/medcompanion/internal/logger"
	"github.com/dtroode/medcompanion/internal/model"
)

// Accounts serves the credential and profile tables to remote sessions.
type Accounts struct {
	credentials model.CredentialSource
	profiles    model.ProfileSource
	logger      *logger.Logger
}

func NewAccounts(credentials model.CredentialSource, profiles model.ProfileSource, logger *logger.Logger) *Accounts {
	return &Accounts{
		credentials: credentials,
		profiles:    profiles,
		logger:      logger,
	}
}

// FindByEmail returns the credential registered for email.
func (s *Accounts) FindByEmail(ctx context.Context, email string) (model.Credential, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return model.Credential{}, fmt.Errorf("email is empty: %w", model.ErrValidation)
	}

	s.logger.Debug("Accounts service: looking up credentials",
		"email", email)

	credential, err := s.credentials.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("Accounts service: failed to find credentials",
				"email", email,
				"error", err.Error())
		}
		return model.Credential{}, err
	}

	return credential, nil
}

// CreateCredential registers a new account.
func (s *Accounts) CreateCredential(ctx context.Context, credential model.Credential) error {
	if err := credential.Identity.Validate(); err != nil {
		return err
	}
	if len(credential.PasswordHash) == 0 {
		return fmt.Errorf("password hash is empty: %w", model.ErrValidation)
	}

	if err := s.credentials.Create(ctx, credential); err != nil {
		if !errors.Is(err, model.ErrValidation) {
			s.logger.Error("Accounts service: failed to create credentials",
				"user_id", credential.Identity.ID,
				"error", err.Error())
		}
		return err
	}

	s.logger.Info("Accounts service: account registered",
		"user_id", credential.Identity.ID,
		"role", credential.Identity.Role)

	return nil
}

// GetProfile returns the stored profile of identity.
func (s *Accounts) GetProfile(ctx context.Context, identity model.Identity) (model.Profile, error) {
	if err := identity.Validate(); err != nil {
		return model.Profile{}, err
	}

	profile, err := s.profiles.Get(ctx, identity)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("Accounts service: failed to get profile",
				"user_id", identity.ID,
				"error", err.Error())
		}
		return model.Profile{}, err
	}

	return profile, nil
}

// SaveProfile replaces the stored profile of userID.
func (s *Accounts) SaveProfile(ctx context.Context, userID string, profile model.Profile) error {
	if userID == "" {
		return fmt.Errorf("user id is empty: %w", model.ErrValidation)
	}
	if profile.Role() == "" {
		return fmt.Errorf("profile must carry exactly one variant: %w", model.ErrValidation)
	}

	if err := s.profiles.Save(ctx, userID, profile); err != nil {
		if !errors.Is(err, model.ErrValidation) {
			s.logger.Error("Accounts service: failed to save profile",
				"user_id", userID,
				"error", err.Error())
		}
		return err
	}

	s.logger.Debug("Accounts service: profile saved",
		"user_id", userID,
		"role", profile.Role())

	return nil
}

// FindDoctorByPatientCode returns the id of the doctor holding code.
func (s *Accounts) FindDoctorByPatientCode(ctx context.Context, code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("patient code is empty: %w", model.ErrValidation)
	}

	doctorID, err := s.profiles.FindDoctorByPatientCode(ctx, code)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("Accounts service: failed to find doctor by patient code",
				"code", code,
				"error", err.Error())
		}
		return "", err
	}

	return doctorID, nil
}
