package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/medcompanion/internal/model"
)

func TestNewSeededProfiles(t *testing.T) {
	ctx := context.Background()
	p := NewSeededProfiles()

	patient, err := p.Get(ctx, DemoIdentities[0])
	require.NoError(t, err)
	require.NotNil(t, patient.Patient)
	assert.Equal(t, "O+", *patient.Patient.BloodType)

	doctor, err := p.Get(ctx, DemoIdentities[1])
	require.NoError(t, err)
	require.NotNil(t, doctor.Doctor)
	assert.Equal(t, "DOC123", *doctor.Doctor.PatientCode)

	id, err := p.FindDoctorByPatientCode(ctx, "DOC123")
	require.NoError(t, err)
	assert.Equal(t, "2", id)
}

func TestProfiles_GetRoleMismatch(t *testing.T) {
	ctx := context.Background()
	p := NewSeededProfiles()

	_, err := p.Get(ctx, model.Identity{ID: "1", Role: model.RoleDoctor})
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = p.Get(ctx, model.Identity{ID: "404", Role: model.RolePatient})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestProfiles_Save(t *testing.T) {
	ctx := context.Background()
	p := NewSeededProfiles()
	identity := model.Identity{ID: "9", Role: model.RoleDoctor}

	tests := []struct {
		name    string
		userID  string
		profile model.Profile
		wantErr error
	}{
		{
			name:    "no variant",
			userID:  "9",
			profile: model.Profile{},
			wantErr: model.ErrValidation,
		},
		{
			name:    "code owned by another doctor",
			userID:  "9",
			profile: model.Profile{Doctor: &model.DoctorProfile{PatientCode: model.Ptr("DOC123")}},
			wantErr: model.ErrValidation,
		},
		{
			name:    "owner keeps its code",
			userID:  "2",
			profile: model.Profile{Doctor: &model.DoctorProfile{PatientCode: model.Ptr("DOC123")}},
		},
		{
			name:    "linked to a patient",
			userID:  "8",
			profile: model.Profile{Patient: &model.PatientProfile{LinkedDoctorID: model.Ptr("1")}},
			wantErr: model.ErrValidation,
		},
		{
			name:    "linked to an unknown account",
			userID:  "8",
			profile: model.Profile{Patient: &model.PatientProfile{LinkedDoctorID: model.Ptr("42")}},
			wantErr: model.ErrValidation,
		},
		{
			name:    "linked to a doctor",
			userID:  "8",
			profile: model.Profile{Patient: &model.PatientProfile{LinkedDoctorID: model.Ptr("2")}},
		},
		{
			name:    "new doctor",
			userID:  "9",
			profile: model.Profile{Doctor: &model.DoctorProfile{PatientCode: model.Ptr("DOC4821")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Save(ctx, tt.userID, tt.profile)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}

	got, err := p.Get(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, "DOC4821", *got.Doctor.PatientCode)
}

func TestProfiles_SaveStoresCopy(t *testing.T) {
	ctx := context.Background()
	p := NewProfiles()
	profile := model.Profile{Patient: &model.PatientProfile{Allergies: []string{"Peanuts"}}}

	require.NoError(t, p.Save(ctx, "1", profile))
	profile.Patient.Allergies[0] = "changed"

	got, err := p.Get(ctx, model.Identity{ID: "1", Role: model.RolePatient})
	require.NoError(t, err)
	assert.Equal(t, []string{"Peanuts"}, got.Patient.Allergies)
}
