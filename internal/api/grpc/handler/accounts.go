package handler

import (
	"context"

	"github.com/dtroode/medcompanion/internal/api/grpc/accounts"
	"github.com/dtroode/medcompanion/internal/logger"
	"github.com/dtroode/medcompanion/internal/model"
)

// AccountsService defines the credential and profile operations served
// over gRPC.
type AccountsService interface {
	FindByEmail(ctx context.Context, email string) (model.Credential, error)
	CreateCredential(ctx context.Context, credential model.Credential) error
	GetProfile(ctx context.Context, identity model.Identity) (model.Profile, error)
	SaveProfile(ctx context.Context, userID string, profile model.Profile) error
	FindDoctorByPatientCode(ctx context.Context, code string) (string, error)
}

// Accounts handles gRPC endpoints of the medcompanion.Accounts service.
type Accounts struct {
	accounts.UnimplementedAccountsServer
	accountsService AccountsService
	contextManager  model.ContextManager
	logger          *logger.Logger
}

var _ accounts.AccountsServer = (*Accounts)(nil)

// NewAccounts creates a new Accounts handler.
func NewAccounts(accountsService AccountsService, contextManager model.ContextManager, logger *logger.Logger) *Accounts {
	return &Accounts{
		accountsService: accountsService,
		contextManager:  contextManager,
		logger:          logger,
	}
}

// FindByEmail returns the credential registered for an email.
func (h *Accounts) FindByEmail(ctx context.Context, req *accounts.FindByEmailRequest) (*accounts.FindByEmailResponse, error) {
	h.logger.Debug("Accounts handler: processing find by email request",
		"caller", h.caller(ctx),
		"email", req.Email)

	credential, err := h.accountsService.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, handleError(err)
	}

	return &accounts.FindByEmailResponse{Credential: credential}, nil
}

// CreateCredential registers a new account.
func (h *Accounts) CreateCredential(ctx context.Context, req *accounts.CreateCredentialRequest) (*accounts.Empty, error) {
	h.logger.Debug("Accounts handler: processing create credential request",
		"caller", h.caller(ctx),
		"email", req.Credential.Identity.Email)

	if err := h.accountsService.CreateCredential(ctx, req.Credential); err != nil {
		return nil, handleError(err)
	}

	h.logger.Info("Accounts handler: credential created",
		"caller", h.caller(ctx),
		"user_id", req.Credential.Identity.ID)

	return &accounts.Empty{}, nil
}

// GetProfile returns the stored profile of an identity.
func (h *Accounts) GetProfile(ctx context.Context, req *accounts.GetProfileRequest) (*accounts.GetProfileResponse, error) {
	h.logger.Debug("Accounts handler: processing get profile request",
		"caller", h.caller(ctx),
		"user_id", req.Identity.ID)

	profile, err := h.accountsService.GetProfile(ctx, req.Identity)
	if err != nil {
		return nil, handleError(err)
	}

	return &accounts.GetProfileResponse{Profile: profile}, nil
}

// SaveProfile replaces the stored profile of a user.
func (h *Accounts) SaveProfile(ctx context.Context, req *accounts.SaveProfileRequest) (*accounts.Empty, error) {
	h.logger.Debug("Accounts handler: processing save profile request",
		"caller", h.caller(ctx),
		"user_id", req.UserID)

	if err := h.accountsService.SaveProfile(ctx, req.UserID, req.Profile); err != nil {
		return nil, handleError(err)
	}

	return &accounts.Empty{}, nil
}

// FindDoctorByPatientCode resolves a patient code to its doctor.
func (h *Accounts) FindDoctorByPatientCode(ctx context.Context, req *accounts.FindDoctorByPatientCodeRequest) (*accounts.FindDoctorByPatientCodeResponse, error) {
	h.logger.Debug("Accounts handler: processing find doctor request",
		"caller", h.caller(ctx),
		"code", req.Code)

	doctorID, err := h.accountsService.FindDoctorByPatientCode(ctx, req.Code)
	if err != nil {
		return nil, handleError(err)
	}

	return &accounts.FindDoctorByPatientCodeResponse{DoctorID: doctorID}, nil
}

func (h *Accounts) caller(ctx context.Context) string {
	caller, ok := h.contextManager.GetCallerFromContext(ctx)
	if !ok {
		return "unknown"
	}
	return caller
}
