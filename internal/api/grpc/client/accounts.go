// Package client implements the session's credential and profile sources
// on top of the remote accounts service.
package client

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/dtroode/medcompanion/internal/api/grpc/accounts"
	"github.com/dtroode/medcompanion/internal/model"
)

var (
	_ model.CredentialSource = (*Accounts)(nil)
	_ model.ProfileSource    = (*Accounts)(nil)
)

// Accounts is a model.CredentialSource and model.ProfileSource backed by
// the accounts service.
type Accounts struct {
	client accounts.AccountsClient
}

func NewAccounts(client accounts.AccountsClient) *Accounts {
	return &Accounts{client: client}
}

// Dial connects to the accounts service at addr. Every call carries token
// as a bearer credential.
func Dial(addr, token string, creds credentials.TransportCredentials, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	if creds == nil {
		creds = insecure.NewCredentials()
	}
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithPerRPCCredentials(bearerToken{
			token:      token,
			requireTLS: creds.Info().SecurityProtocol == "tls",
		}),
	}, opts...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create accounts client: %w", err)
	}
	return conn, nil
}

// TransportCredentials returns TLS credentials trusting caFile, or the
// system pool when caFile is empty. useTLS false yields plaintext.
func TransportCredentials(useTLS bool, caFile string) (credentials.TransportCredentials, error) {
	if !useTLS {
		return insecure.NewCredentials(), nil
	}
	if caFile == "" {
		return credentials.NewClientTLSFromCert(nil, ""), nil
	}
	creds, err := credentials.NewClientTLSFromFile(caFile, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load CA certificate: %w", err)
	}
	return creds, nil
}

func (a *Accounts) FindByEmail(ctx context.Context, email string) (model.Credential, error) {
	out, err := a.client.FindByEmail(ctx, &accounts.FindByEmailRequest{Email: email})
	if err != nil {
		return model.Credential{}, mapError("find credentials", err)
	}
	return out.Credential, nil
}

func (a *Accounts) Create(ctx context.Context, credential model.Credential) error {
	if _, err := a.client.CreateCredential(ctx, &accounts.CreateCredentialRequest{Credential: credential}); err != nil {
		return mapError("create credentials", err)
	}
	return nil
}

func (a *Accounts) Get(ctx context.Context, identity model.Identity) (model.Profile, error) {
	out, err := a.client.GetProfile(ctx, &accounts.GetProfileRequest{Identity: identity})
	if err != nil {
		return model.Profile{}, mapError("get profile", err)
	}
	return out.Profile, nil
}

func (a *Accounts) Save(ctx context.Context, userID string, profile model.Profile) error {
	if _, err := a.client.SaveProfile(ctx, &accounts.SaveProfileRequest{UserID: userID, Profile: profile}); err != nil {
		return mapError("save profile", err)
	}
	return nil
}

func (a *Accounts) FindDoctorByPatientCode(ctx context.Context, code string) (string, error) {
	out, err := a.client.FindDoctorByPatientCode(ctx, &accounts.FindDoctorByPatientCodeRequest{Code: code})
	if err != nil {
		return "", mapError("find doctor by patient code", err)
	}
	return out.DoctorID, nil
}

// errRemote marks failures reported by the accounts service itself.
var errRemote = errors.New("accounts service error")

func mapError(op string, err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	switch st.Code() {
	case codes.NotFound:
		return model.ErrNotFound
	case codes.AlreadyExists:
		return model.ErrEmailTaken
	case codes.InvalidArgument:
		return fmt.Errorf("failed to %s: %s: %w", op, st.Message(), model.ErrValidation)
	default:
		return fmt.Errorf("failed to %s: %w: %s: %s", op, errRemote, st.Code(), st.Message())
	}
}

type bearerToken struct {
	token      string
	requireTLS bool
}

func (b bearerToken) GetRequestMetadata(_ context.Context, _ ...string) (map[string]string, error) {
	return map[string]string{"authorization": "Bearer " + b.token}, nil
}

func (b bearerToken) RequireTransportSecurity() bool {
	return b.requireTLS
}
