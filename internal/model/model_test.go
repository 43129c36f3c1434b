package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity_Validate(t *testing.T) {
	t.Parallel()

	valid := Identity{ID: "1", Name: "John Doe", Email: "patient@example.com", Role: RolePatient}
	require.NoError(t, valid.Validate())

	for name, mutate := range map[string]func(*Identity){
		"missing id":    func(i *Identity) { i.ID = "" },
		"missing email": func(i *Identity) { i.Email = "" },
		"unknown role":  func(i *Identity) { i.Role = "nurse" },
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			id := valid
			mutate(&id)
			require.ErrorIs(t, id.Validate(), ErrValidation)
		})
	}
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	r, err := ParseRole(" Doctor ")
	require.NoError(t, err)
	assert.Equal(t, RoleDoctor, r)

	_, err = ParseRole("admin")
	require.ErrorIs(t, err, ErrValidation)
}

func TestProfile_RoleAndClone(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RolePatient, EmptyProfile(RolePatient).Role())
	assert.Equal(t, RoleDoctor, EmptyProfile(RoleDoctor).Role())
	assert.Equal(t, Role(""), Profile{}.Role())
	assert.Equal(t, Role(""), Profile{Patient: &PatientProfile{}, Doctor: &DoctorProfile{}}.Role())

	p := Profile{Patient: &PatientProfile{Age: Ptr(30), Allergies: []string{"Dust"}}}
	c := p.Clone()
	*c.Patient.Age = 31
	c.Patient.Allergies[0] = "Latex"

	assert.Equal(t, 30, *p.Patient.Age)
	assert.Equal(t, []string{"Dust"}, p.Patient.Allergies)
}

func TestPhase(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "profile_incomplete", PhaseProfileIncomplete.String())
	assert.Equal(t, "unknown", Phase(42).String())
	assert.True(t, PhaseAuthenticated.Authenticated())
	assert.True(t, PhaseProfileIncomplete.Authenticated())
	assert.False(t, PhaseUnauthenticated.Authenticated())
	assert.False(t, PhaseUninitialized.Authenticated())

	assert.Equal(t, RouteShowDoctorSetup, SetupRoute(RoleDoctor))
	assert.Equal(t, RouteShowPatientSetup, SetupRoute(RolePatient))
}
