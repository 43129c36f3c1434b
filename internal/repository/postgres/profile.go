package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/medcompanion/internal/model"
)

var _ model.ProfileSource = (*ProfileRepository)(nil)

var (
	errInvalidProfile   = fmt.Errorf("profile must carry exactly one variant: %w", model.ErrValidation)
	errPatientCodeTaken = fmt.Errorf("patient code is already in use: %w", model.ErrValidation)
	errUnknownReference = fmt.Errorf("profile references an unknown account: %w", model.ErrValidation)
	errUnknownDoctor    = fmt.Errorf("linked doctor does not exist: %w", model.ErrValidation)
)

type ProfileRepository struct {
	db *Connection
}

func NewProfileRepository(db *Connection) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Get(ctx context.Context, identity model.Identity) (model.Profile, error) {
	switch identity.Role {
	case model.RolePatient:
		p, err := r.getPatient(ctx, identity.ID)
		if err != nil {
			return model.Profile{}, err
		}
		return model.Profile{Patient: p}, nil
	case model.RoleDoctor:
		d, err := r.getDoctor(ctx, identity.ID)
		if err != nil {
			return model.Profile{}, err
		}
		return model.Profile{Doctor: d}, nil
	}
	return model.Profile{}, model.ErrNotFound
}

func (r *ProfileRepository) getPatient(ctx context.Context, userID string) (*model.PatientProfile, error) {
	const query = `
        SELECT age, gender, weight, height, blood_type, allergies, conditions, linked_doctor_id
        FROM patient_profiles
        WHERE user_id = $1
    `

	var (
		p      model.PatientProfile
		gender *string
	)
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.Age, &gender, &p.Weight, &p.Height, &p.BloodType,
		&p.Allergies, &p.Conditions, &p.LinkedDoctorID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient profile: %w", err)
	}
	if gender != nil {
		g := model.Gender(*gender)
		p.Gender = &g
	}

	return &p, nil
}

func (r *ProfileRepository) getDoctor(ctx context.Context, userID string) (*model.DoctorProfile, error) {
	const query = `
        SELECT specialization, experience, clinic_info, patient_code, education, license_number
        FROM doctor_profiles
        WHERE user_id = $1
    `

	var d model.DoctorProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&d.Specialization, &d.Experience, &d.ClinicInfo, &d.PatientCode, &d.Education, &d.LicenseNumber,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get doctor profile: %w", err)
	}

	return &d, nil
}

func (r *ProfileRepository) Save(ctx context.Context, userID string, profile model.Profile) error {
	var err error
	switch profile.Role() {
	case model.RolePatient:
		err = r.savePatient(ctx, userID, profile.Patient)
	case model.RoleDoctor:
		err = r.saveDoctor(ctx, userID, profile.Doctor)
	default:
		return errInvalidProfile
	}
	if err == nil || errors.Is(err, model.ErrValidation) {
		return err
	}

	switch pgErrorCode(err) {
	case codeUniqueViolation:
		return errPatientCodeTaken
	case codeForeignKeyViolation:
		return errUnknownReference
	case codeCheckViolation:
		return fmt.Errorf("profile value out of range: %w", model.ErrValidation)
	}
	return fmt.Errorf("failed to save profile: %w", err)
}

func (r *ProfileRepository) savePatient(ctx context.Context, userID string, p *model.PatientProfile) error {
	const query = `
        INSERT INTO patient_profiles (user_id, age, gender, weight, height, blood_type, allergies, conditions, linked_doctor_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (user_id) DO UPDATE SET
            age = EXCLUDED.age,
            gender = EXCLUDED.gender,
            weight = EXCLUDED.weight,
            height = EXCLUDED.height,
            blood_type = EXCLUDED.blood_type,
            allergies = EXCLUDED.allergies,
            conditions = EXCLUDED.conditions,
            linked_doctor_id = EXCLUDED.linked_doctor_id,
            updated_at = NOW()
    `

	if p.LinkedDoctorID != nil {
		if err := r.checkDoctor(ctx, *p.LinkedDoctorID); err != nil {
			return err
		}
	}

	var gender *string
	if p.Gender != nil {
		g := string(*p.Gender)
		gender = &g
	}

	_, err := r.db.Exec(ctx, query,
		userID, p.Age, gender, p.Weight, p.Height, p.BloodType, p.Allergies, p.Conditions, p.LinkedDoctorID,
	)
	return err
}

func (r *ProfileRepository) checkDoctor(ctx context.Context, id string) error {
	const query = `SELECT role FROM credentials WHERE id = $1`

	var role string
	err := r.db.QueryRow(ctx, query, id).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && model.Role(role) != model.RoleDoctor) {
		return errUnknownDoctor
	}
	if err != nil {
		return fmt.Errorf("failed to check linked doctor: %w", err)
	}
	return nil
}

func (r *ProfileRepository) saveDoctor(ctx context.Context, userID string, d *model.DoctorProfile) error {
	const query = `
        INSERT INTO doctor_profiles (user_id, specialization, experience, clinic_info, patient_code, education, license_number)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (user_id) DO UPDATE SET
            specialization = EXCLUDED.specialization,
            experience = EXCLUDED.experience,
            clinic_info = EXCLUDED.clinic_info,
            patient_code = EXCLUDED.patient_code,
            education = EXCLUDED.education,
            license_number = EXCLUDED.license_number,
            updated_at = NOW()
    `

	_, err := r.db.Exec(ctx, query,
		userID, d.Specialization, d.Experience, d.ClinicInfo, d.PatientCode, d.Education, d.LicenseNumber,
	)
	return err
}

func (r *ProfileRepository) FindDoctorByPatientCode(ctx context.Context, code string) (string, error) {
	const query = `SELECT user_id FROM doctor_profiles WHERE patient_code = $1`

	var userID string
	if err := r.db.QueryRow(ctx, query, code).Scan(&userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("failed to find doctor by patient code: %w", err)
	}

	return userID, nil
}
