package client

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	"github.com/dtroode/medcompanion/internal/api/grpc/accounts"
	grpcctx "github.com/dtroode/medcompanion/internal/api/grpc/context"
	"github.com/dtroode/medcompanion/internal/api/grpc/router"
	"github.com/dtroode/medcompanion/internal/model"
	"github.com/dtroode/medcompanion/internal/password"
	memrepo "github.com/dtroode/medcompanion/internal/repository/memory"
	"github.com/dtroode/medcompanion/internal/service"
	memkv "github.com/dtroode/medcompanion/internal/storage/memory"
	"github.com/dtroode/medcompanion/internal/testutil"
	"github.com/dtroode/medcompanion/internal/token"
)

const bufSize = 1 << 20

type testServer struct {
	listener *bufconn.Listener
	tokens   *service.TokenService
}

func startServer(t *testing.T) *testServer {
	t.Helper()

	lg := testutil.MakeNoopLogger()
	hasher := password.NewBcrypt(bcrypt.MinCost)
	creds, err := memrepo.NewSeededCredentials(hasher)
	require.NoError(t, err)

	tokens := service.NewTokenService(token.NewJWT("test-secret", time.Hour), lg)
	accountsService := service.NewAccounts(creds, memrepo.NewSeededProfiles(), lg)

	s := router.New(accountsService, tokens, grpcctx.NewManager(), lg).Register()

	lis := bufconn.Listen(bufSize)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	return &testServer{listener: lis, tokens: tokens}
}

func (s *testServer) dial(t *testing.T, token string) *grpc.ClientConn {
	t.Helper()

	conn, err := Dial("passthrough:///bufnet", token, nil,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return s.listener.DialContext(ctx)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func (s *testServer) client(t *testing.T) *Accounts {
	t.Helper()

	tok, err := s.tokens.Issue("companion")
	require.NoError(t, err)

	return NewAccounts(accounts.NewAccountsClient(s.dial(t, tok)))
}

func TestAccounts_Credentials(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := startServer(t).client(t)

	cred, err := c.FindByEmail(ctx, "patient@example.com")
	require.NoError(t, err)
	assert.Equal(t, memrepo.DemoIdentities[0], cred.Identity)
	assert.NoError(t, bcrypt.CompareHashAndPassword(cred.PasswordHash, []byte(memrepo.DemoPassword)))

	_, err = c.FindByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, model.ErrNotFound)

	err = c.Create(ctx, model.Credential{Identity: memrepo.DemoIdentities[1], PasswordHash: []byte("h")})
	require.ErrorIs(t, err, model.ErrEmailTaken)

	fresh := model.Credential{
		Identity:     model.Identity{ID: "u-7", Name: "New", Email: "new@example.com", Role: model.RolePatient},
		PasswordHash: []byte("h"),
	}
	require.NoError(t, c.Create(ctx, fresh))

	got, err := c.FindByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, fresh, got)

	err = c.Create(ctx, model.Credential{Identity: model.Identity{ID: "u-8"}, PasswordHash: []byte("h")})
	require.ErrorIs(t, err, model.ErrValidation)
	assert.NotErrorIs(t, err, model.ErrEmailTaken)
}

func TestAccounts_Profiles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := startServer(t).client(t)

	profile, err := c.Get(ctx, memrepo.DemoIdentities[0])
	require.NoError(t, err)
	require.NotNil(t, profile.Patient)
	assert.Equal(t, []string{"Penicillin", "Peanuts"}, profile.Patient.Allergies)
	assert.Equal(t, model.GenderMale, *profile.Patient.Gender)

	doctor := model.Profile{Doctor: &model.DoctorProfile{
		Specialization: model.Ptr("Dermatology"),
		PatientCode:    model.Ptr("DOC4321"),
	}}
	require.NoError(t, c.Save(ctx, "u-9", doctor))

	id, err := c.FindDoctorByPatientCode(ctx, "DOC4321")
	require.NoError(t, err)
	assert.Equal(t, "u-9", id)

	_, err = c.FindDoctorByPatientCode(ctx, "DOC0000")
	require.ErrorIs(t, err, model.ErrNotFound)

	err = c.Save(ctx, "u-10", model.Profile{Doctor: &model.DoctorProfile{PatientCode: model.Ptr("DOC4321")}})
	require.ErrorIs(t, err, model.ErrValidation)

	err = c.Save(ctx, "u-11", model.Profile{})
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestAccounts_RejectsBadToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	srv := startServer(t)

	for _, tok := range []string{"", "not-a-jwt"} {
		c := NewAccounts(accounts.NewAccountsClient(srv.dial(t, tok)))

		_, err := c.FindByEmail(ctx, "patient@example.com")
		require.ErrorIs(t, err, errRemote)
		assert.NotErrorIs(t, err, model.ErrNotFound)
		assert.Contains(t, err.Error(), "Unauthenticated")
	}
}

func TestAccounts_HealthWithoutToken(t *testing.T) {
	t.Parallel()

	conn := startServer(t).dial(t, "")

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{
		Service: accounts.ServiceName,
	})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestAccounts_BacksSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	remote := startServer(t).client(t)
	kv := memkv.NewStore()

	session := service.NewSession(kv, remote, remote, password.NewBcrypt(bcrypt.MinCost), nil, testutil.MakeNoopLogger(), "")
	require.NoError(t, session.Bootstrap(ctx))

	require.NoError(t, session.SignUp(ctx, "remote@example.com", "secret1", "Remote Doctor", model.RoleDoctor))
	require.NoError(t, session.UpdateDoctorProfile(ctx, model.DoctorPatch{Specialization: model.Ptr("Oncology")}))

	snap := session.Snapshot()
	assert.Equal(t, model.PhaseAuthenticated, snap.Phase)
	require.NotNil(t, snap.Doctor.PatientCode)

	doctorID, err := remote.FindDoctorByPatientCode(ctx, *snap.Doctor.PatientCode)
	require.NoError(t, err)
	assert.Equal(t, snap.Identity.ID, doctorID)

	session.SignOut(ctx)
	err = session.SignIn(ctx, "remote@example.com", "wrong")
	require.ErrorIs(t, err, model.ErrAuthentication)
	require.NoError(t, session.SignIn(ctx, "remote@example.com", "secret1"))
	assert.Equal(t, "Oncology", *session.Snapshot().Doctor.Specialization)
}

func TestMapError(t *testing.T) {
	t.Parallel()

	err := mapError("find credentials", context.DeadlineExceeded)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTransportCredentials(t *testing.T) {
	t.Parallel()

	plain, err := TransportCredentials(false, "")
	require.NoError(t, err)
	assert.Equal(t, "insecure", plain.Info().SecurityProtocol)

	system, err := TransportCredentials(true, "")
	require.NoError(t, err)
	assert.Equal(t, "tls", system.Info().SecurityProtocol)

	_, err = TransportCredentials(true, "/nonexistent/ca.pem")
	require.Error(t, err)
}
