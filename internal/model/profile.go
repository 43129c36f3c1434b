package model

import (
	"fmt"
	"slices"
	"strings"
)

// Gender is the self-reported gender of a patient.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ParseGender accepts male, female or other in any letter case.
func ParseGender(s string) (Gender, error) {
	g := Gender(strings.ToLower(strings.TrimSpace(s)))
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return g, nil
	}
	return "", fmt.Errorf("gender must be male, female or other: %w", ErrValidation)
}

// PatientProfile holds patient-specific data. All fields are optional.
type PatientProfile struct {
	Age            *int     `json:"age,omitempty"`
	Gender         *Gender  `json:"gender,omitempty"`
	Weight         *float64 `json:"weight,omitempty"`
	Height         *float64 `json:"height,omitempty"`
	BloodType      *string  `json:"bloodType,omitempty"`
	Allergies      []string `json:"allergies,omitempty"`
	Conditions     []string `json:"conditions,omitempty"`
	LinkedDoctorID *string  `json:"linkedDoctorId,omitempty"`
}

// Clone returns a deep copy of p.
func (p *PatientProfile) Clone() *PatientProfile {
	if p == nil {
		return nil
	}
	return &PatientProfile{
		Age:            clonePtr(p.Age),
		Gender:         clonePtr(p.Gender),
		Weight:         clonePtr(p.Weight),
		Height:         clonePtr(p.Height),
		BloodType:      clonePtr(p.BloodType),
		Allergies:      slices.Clone(p.Allergies),
		Conditions:     slices.Clone(p.Conditions),
		LinkedDoctorID: clonePtr(p.LinkedDoctorID),
	}
}

// DoctorProfile holds doctor-specific data. All fields are optional.
type DoctorProfile struct {
	Specialization *string `json:"specialization,omitempty"`
	Experience     *int    `json:"experience,omitempty"`
	ClinicInfo     *string `json:"clinicInfo,omitempty"`
	PatientCode    *string `json:"patientCode,omitempty"`
	Education      *string `json:"education,omitempty"`
	LicenseNumber  *string `json:"licenseNumber,omitempty"`
}

// Clone returns a deep copy of p.
func (p *DoctorProfile) Clone() *DoctorProfile {
	if p == nil {
		return nil
	}
	return &DoctorProfile{
		Specialization: clonePtr(p.Specialization),
		Experience:     clonePtr(p.Experience),
		ClinicInfo:     clonePtr(p.ClinicInfo),
		PatientCode:    clonePtr(p.PatientCode),
		Education:      clonePtr(p.Education),
		LicenseNumber:  clonePtr(p.LicenseNumber),
	}
}

// Profile carries exactly one role-specific profile.
type Profile struct {
	Patient *PatientProfile `json:"patient,omitempty"`
	Doctor  *DoctorProfile  `json:"doctor,omitempty"`
}

// EmptyProfile returns a profile of the variant that matches role.
func EmptyProfile(role Role) Profile {
	switch role {
	case RolePatient:
		return Profile{Patient: &PatientProfile{}}
	case RoleDoctor:
		return Profile{Doctor: &DoctorProfile{}}
	}
	return Profile{}
}

// Role reports which variant the profile carries, or "" when it carries
// none or both.
func (p Profile) Role() Role {
	switch {
	case p.Patient != nil && p.Doctor == nil:
		return RolePatient
	case p.Doctor != nil && p.Patient == nil:
		return RoleDoctor
	}
	return ""
}

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	return Profile{Patient: p.Patient.Clone(), Doctor: p.Doctor.Clone()}
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
