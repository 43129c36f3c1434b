package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/medcompanion/internal/model"
	"github.com/dtroode/medcompanion/internal/navigation"
	"github.com/dtroode/medcompanion/internal/password"
	memrepo "github.com/dtroode/medcompanion/internal/repository/memory"
	"github.com/dtroode/medcompanion/internal/service"
	memkv "github.com/dtroode/medcompanion/internal/storage/memory"
	"github.com/dtroode/medcompanion/internal/testutil"
)

func newTestShell(t *testing.T, input string) (*Shell, *service.Session, *bytes.Buffer) {
	t.Helper()

	lg := testutil.MakeNoopLogger()
	hasher := password.NewBcrypt(bcrypt.MinCost)
	creds, err := memrepo.NewSeededCredentials(hasher)
	require.NoError(t, err)

	nav := navigation.NewChannel(16, lg)
	session := service.NewSession(memkv.NewStore(), creds, memrepo.NewSeededProfiles(), hasher, nav, lg, "")
	require.NoError(t, session.Bootstrap(context.Background()))

	var out bytes.Buffer
	return New(session, nav.Routes(), strings.NewReader(input), &out, 0, lg), session, &out
}

func TestShell_RunSignInAndOut(t *testing.T) {
	t.Parallel()

	sh, session, out := newTestShell(t, strings.Join([]string{
		"signin patient@example.com wrong",
		"signin patient@example.com password",
		"whoami",
		"signout",
		"quit",
		"whoami",
	}, "\n"))

	require.NoError(t, sh.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "== Sign in ==")
	assert.Contains(t, text, "error: invalid email or password")
	assert.Contains(t, text, "== Home ==")
	assert.Contains(t, text, "John Doe <patient@example.com> (patient), authenticated")
	assert.Contains(t, text, "Allergies: Penicillin, Peanuts")
	assert.Equal(t, 2, strings.Count(text, "== Sign in =="))
	assert.Equal(t, model.PhaseUnauthenticated, session.Phase())
}

func TestShell_RunSignUpFlow(t *testing.T) {
	t.Parallel()

	sh, session, out := newTestShell(t, strings.Join([]string{
		`signup patient new@example.com secret1 "Ann Lee"`,
		"profile age=29 gender=Female allergies=Latex,Dust",
		"link doc123",
		"",
	}, "\n"))

	require.NoError(t, sh.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "== Patient profile setup ==")
	assert.Contains(t, text, "Profile saved.")
	assert.Contains(t, text, "Doctor linked.")
	assert.Contains(t, text, "== Home ==")

	snap := session.Snapshot()
	assert.Equal(t, model.PhaseAuthenticated, snap.Phase)
	assert.Equal(t, "Ann Lee", snap.Identity.Name)
	assert.Equal(t, 29, *snap.Patient.Age)
	assert.Equal(t, model.GenderFemale, *snap.Patient.Gender)
	assert.Equal(t, []string{"Latex", "Dust"}, snap.Patient.Allergies)
	assert.Equal(t, "2", *snap.Patient.LinkedDoctorID)
}

func TestShell_RunStopsOnContext(t *testing.T) {
	t.Parallel()

	sh, _, _ := newTestShell(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, sh.Run(ctx))
}

func TestShell_Execute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		line    string
		wantErr error
	}{
		{name: "blank", line: "   "},
		{name: "help", line: "help"},
		{name: "unknown command", line: "dance", wantErr: model.ErrValidation},
		{name: "unterminated quote", line: `signin "a@b.c`, wantErr: model.ErrValidation},
		{name: "signin missing password", line: "signin patient@example.com", wantErr: model.ErrValidation},
		{name: "signin empty password", line: `signin patient@example.com ""`, wantErr: model.ErrValidation},
		{name: "signup short password", line: "signup patient a@example.com abc Ann", wantErr: model.ErrValidation},
		{name: "signup bad email", line: "signup patient not-an-email secret1 Ann", wantErr: model.ErrValidation},
		{name: "signup bad role", line: "signup nurse a@example.com secret1 Ann", wantErr: model.ErrValidation},
		{name: "signup missing name", line: "signup patient a@example.com secret1", wantErr: model.ErrValidation},
		{name: "signup taken email", line: "signup doctor doctor@example.com secret1 Jane", wantErr: model.ErrEmailTaken},
		{name: "profile signed out", line: "profile age=3", wantErr: model.ErrInvalidState},
		{name: "quit", line: "quit", wantErr: errQuit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sh, _, _ := newTestShell(t, "")

			err := sh.Execute(context.Background(), tt.line)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestShell_ExecuteProfileErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sh, session, _ := newTestShell(t, "")
	require.NoError(t, sh.Execute(ctx, "signin doctor@example.com password"))

	for _, line := range []string{
		"profile",
		"profile experience",
		"profile experience=-1",
		"profile age=30",
		"link DOC123",
	} {
		err := sh.Execute(ctx, line)
		require.ErrorIs(t, err, model.ErrValidation, line)
	}

	require.NoError(t, sh.Execute(ctx, `profile clinicInfo="Heart Care, Boston" experience=12`))
	snap := session.Snapshot()
	assert.Equal(t, "Heart Care, Boston", *snap.Doctor.ClinicInfo)
	assert.Equal(t, 12, *snap.Doctor.Experience)
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "invalid email or password", describe(model.ErrAuthentication))
	assert.Equal(t, "this email is already registered", describe(model.ErrEmailTaken))
	assert.Equal(t, "could not save your data, please try again", describe(model.ErrPersistence))
	assert.Equal(t, "the operation timed out", describe(context.DeadlineExceeded))
	assert.Equal(t, assert.AnError.Error(), describe(assert.AnError))
}
