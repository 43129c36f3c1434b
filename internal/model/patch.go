package model

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ProfilePatch is a partial profile update. Fields left unset keep their
// current value when the patch is applied.
type ProfilePatch interface {
	// Role is the profile variant the patch applies to.
	Role() Role
	// Validate checks field values without touching any profile.
	Validate() error
	// ApplyTo returns a merged copy of p. p is not modified.
	ApplyTo(p Profile) (Profile, error)
}

// PatientPatch updates a PatientProfile. Nil fields are absent; a non-nil
// slice replaces the stored set.
type PatientPatch struct {
	Age            *int
	Gender         *Gender
	Weight         *float64
	Height         *float64
	BloodType      *string
	Allergies      []string
	Conditions     []string
	LinkedDoctorID *string
}

var _ ProfilePatch = PatientPatch{}

func (PatientPatch) Role() Role { return RolePatient }

func (pp PatientPatch) Validate() error {
	if pp.Age != nil && (*pp.Age <= 0 || *pp.Age > 120) {
		return fmt.Errorf("age must be between 1 and 120: %w", ErrValidation)
	}
	if pp.Gender != nil {
		if _, err := ParseGender(string(*pp.Gender)); err != nil {
			return err
		}
	}
	if pp.Weight != nil && !positiveFinite(*pp.Weight) {
		return fmt.Errorf("weight must be a positive number: %w", ErrValidation)
	}
	if pp.Height != nil && !positiveFinite(*pp.Height) {
		return fmt.Errorf("height must be a positive number: %w", ErrValidation)
	}
	if pp.LinkedDoctorID != nil && strings.TrimSpace(*pp.LinkedDoctorID) == "" {
		return fmt.Errorf("linked doctor id is empty: %w", ErrValidation)
	}
	return nil
}

func (pp PatientPatch) ApplyTo(p Profile) (Profile, error) {
	if p.Role() != RolePatient {
		return Profile{}, fmt.Errorf("patient patch does not apply to %q profile: %w", p.Role(), ErrValidation)
	}

	next := p.Patient.Clone()
	setIfPresent(&next.Age, pp.Age)
	if pp.Gender != nil {
		g, _ := ParseGender(string(*pp.Gender))
		next.Gender = &g
	}
	setIfPresent(&next.Weight, pp.Weight)
	setIfPresent(&next.Height, pp.Height)
	setIfPresent(&next.BloodType, pp.BloodType)
	if pp.Allergies != nil {
		next.Allergies = normalizeSet(pp.Allergies)
	}
	if pp.Conditions != nil {
		next.Conditions = normalizeSet(pp.Conditions)
	}
	setIfPresent(&next.LinkedDoctorID, pp.LinkedDoctorID)

	return Profile{Patient: next}, nil
}

// DoctorPatch updates a DoctorProfile. Nil fields are absent.
type DoctorPatch struct {
	Specialization *string
	Experience     *int
	ClinicInfo     *string
	PatientCode    *string
	Education      *string
	LicenseNumber  *string
}

var _ ProfilePatch = DoctorPatch{}

func (DoctorPatch) Role() Role { return RoleDoctor }

func (dp DoctorPatch) Validate() error {
	if dp.Experience != nil && *dp.Experience < 0 {
		return fmt.Errorf("experience must not be negative: %w", ErrValidation)
	}
	if dp.PatientCode != nil && strings.TrimSpace(*dp.PatientCode) == "" {
		return fmt.Errorf("patient code is empty: %w", ErrValidation)
	}
	return nil
}

func (dp DoctorPatch) ApplyTo(p Profile) (Profile, error) {
	if p.Role() != RoleDoctor {
		return Profile{}, fmt.Errorf("doctor patch does not apply to %q profile: %w", p.Role(), ErrValidation)
	}

	next := p.Doctor.Clone()
	setIfPresent(&next.Specialization, dp.Specialization)
	setIfPresent(&next.Experience, dp.Experience)
	setIfPresent(&next.ClinicInfo, dp.ClinicInfo)
	setIfPresent(&next.PatientCode, dp.PatientCode)
	setIfPresent(&next.Education, dp.Education)
	setIfPresent(&next.LicenseNumber, dp.LicenseNumber)

	return Profile{Doctor: next}, nil
}

func positiveFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func setIfPresent[T any](dst **T, v *T) {
	if v != nil {
		c := *v
		*dst = &c
	}
}

// normalizeSet trims items, drops empty ones and removes duplicates while
// keeping first-seen order.
func normalizeSet(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || slices.Contains(out, item) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// ParseProfilePatch builds a patch for role from string form fields. List
// fields are comma separated. Empty values are treated as absent and
// unknown field names are rejected. The linked doctor is not a form field.
func ParseProfilePatch(role Role, fields map[string]string) (ProfilePatch, error) {
	var (
		patch ProfilePatch
		err   error
	)
	switch role {
	case RolePatient:
		patch, err = parsePatientPatch(fields)
	case RoleDoctor:
		patch, err = parseDoctorPatch(fields)
	default:
		return nil, fmt.Errorf("unknown role %q: %w", role, ErrValidation)
	}
	if err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return patch, nil
}

func parsePatientPatch(fields map[string]string) (PatientPatch, error) {
	var pp PatientPatch
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		value := strings.TrimSpace(fields[key])
		if value == "" {
			if !isPatientField(key) {
				return PatientPatch{}, unknownField(key, RolePatient)
			}
			continue
		}

		switch key {
		case "age":
			n, err := parseInt(key, value)
			if err != nil {
				return PatientPatch{}, err
			}
			pp.Age = &n
		case "gender":
			g, err := ParseGender(value)
			if err != nil {
				return PatientPatch{}, err
			}
			pp.Gender = &g
		case "weight":
			f, err := parseFloat(key, value)
			if err != nil {
				return PatientPatch{}, err
			}
			pp.Weight = &f
		case "height":
			f, err := parseFloat(key, value)
			if err != nil {
				return PatientPatch{}, err
			}
			pp.Height = &f
		case "bloodType":
			pp.BloodType = &value
		case "allergies":
			pp.Allergies = normalizeSet(strings.Split(value, ","))
		case "conditions":
			pp.Conditions = normalizeSet(strings.Split(value, ","))
		default:
			return PatientPatch{}, unknownField(key, RolePatient)
		}
	}
	return pp, nil
}

func parseDoctorPatch(fields map[string]string) (DoctorPatch, error) {
	var dp DoctorPatch
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		value := strings.TrimSpace(fields[key])
		if value == "" {
			if !isDoctorField(key) {
				return DoctorPatch{}, unknownField(key, RoleDoctor)
			}
			continue
		}

		switch key {
		case "specialization":
			dp.Specialization = &value
		case "experience":
			n, err := parseInt(key, value)
			if err != nil {
				return DoctorPatch{}, err
			}
			dp.Experience = &n
		case "clinicInfo":
			dp.ClinicInfo = &value
		case "patientCode":
			dp.PatientCode = &value
		case "education":
			dp.Education = &value
		case "licenseNumber":
			dp.LicenseNumber = &value
		default:
			return DoctorPatch{}, unknownField(key, RoleDoctor)
		}
	}
	return dp, nil
}

var (
	patientFields = []string{"age", "gender", "weight", "height", "bloodType", "allergies", "conditions"}
	doctorFields  = []string{"specialization", "experience", "clinicInfo", "patientCode", "education", "licenseNumber"}
)

func isPatientField(key string) bool { return slices.Contains(patientFields, key) }
func isDoctorField(key string) bool  { return slices.Contains(doctorFields, key) }

func unknownField(key string, role Role) error {
	return fmt.Errorf("unknown field %q for %s profile: %w", key, role, ErrValidation)
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number: %w", key, ErrValidation)
	}
	return n, nil
}

func parseFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, ErrValidation)
	}
	return f, nil
}
