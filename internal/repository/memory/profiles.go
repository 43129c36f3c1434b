package memory

import (
	"context"
	"sync"

	"github.com/dtroode/medcompanion/internal/model"
)

var _ model.ProfileSource = (*Profiles)(nil)

// Profiles is a model.ProfileSource keyed by user id.
type Profiles struct {
	mu     sync.RWMutex
	byUser map[string]model.Profile
}

// NewProfiles creates an empty profile table.
func NewProfiles() *Profiles {
	return &Profiles{byUser: make(map[string]model.Profile)}
}

// NewSeededProfiles creates a table with the demo accounts' profiles.
func NewSeededProfiles() *Profiles {
	p := NewProfiles()
	p.byUser["1"] = model.Profile{Patient: &model.PatientProfile{
		Age:            model.Ptr(35),
		Gender:         model.Ptr(model.GenderMale),
		Weight:         model.Ptr(75.0),
		Height:         model.Ptr(180.0),
		BloodType:      model.Ptr("O+"),
		Allergies:      []string{"Penicillin", "Peanuts"},
		Conditions:     []string{"Hypertension", "Asthma"},
		LinkedDoctorID: model.Ptr("2"),
	}}
	p.byUser["2"] = model.Profile{Doctor: &model.DoctorProfile{
		Specialization: model.Ptr("Cardiology"),
		Experience:     model.Ptr(10),
		ClinicInfo:     model.Ptr("Heart Care Clinic, New York"),
		PatientCode:    model.Ptr("DOC123"),
		Education:      model.Ptr("MD, Harvard Medical School"),
		LicenseNumber:  model.Ptr("NY12345"),
	}}
	return p
}

func (p *Profiles) Get(_ context.Context, identity model.Identity) (model.Profile, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	profile, ok := p.byUser[identity.ID]
	if !ok || profile.Role() != identity.Role {
		return model.Profile{}, model.ErrNotFound
	}
	return profile.Clone(), nil
}

// Save stores profile for userID. A doctor profile whose patient code is
// already owned by another doctor, or a patient profile linked to anyone
// but a known doctor, is rejected with model.ErrValidation.
func (p *Profiles) Save(_ context.Context, userID string, profile model.Profile) error {
	if profile.Role() == "" {
		return errInvalidProfile
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if profile.Doctor != nil && profile.Doctor.PatientCode != nil {
		if owner, ok := p.doctorByCodeLocked(*profile.Doctor.PatientCode); ok && owner != userID {
			return errPatientCodeTaken
		}
	}
	if profile.Patient != nil && profile.Patient.LinkedDoctorID != nil {
		if linked, ok := p.byUser[*profile.Patient.LinkedDoctorID]; !ok || linked.Doctor == nil {
			return errUnknownDoctor
		}
	}
	p.byUser[userID] = profile.Clone()
	return nil
}

func (p *Profiles) FindDoctorByPatientCode(_ context.Context, code string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if id, ok := p.doctorByCodeLocked(code); ok {
		return id, nil
	}
	return "", model.ErrNotFound
}

func (p *Profiles) doctorByCodeLocked(code string) (string, bool) {
	for id, profile := range p.byUser {
		if profile.Doctor != nil && profile.Doctor.PatientCode != nil && *profile.Doctor.PatientCode == code {
			return id, true
		}
	}
	return "", false
}
