package accounts

import "github.com/dtroode/medcompanion/internal/model"

type FindByEmailRequest struct {
	Email string `json:"email"`
}

type FindByEmailResponse struct {
	Credential model.Credential `json:"credential"`
}

type CreateCredentialRequest struct {
	Credential model.Credential `json:"credential"`
}

type GetProfileRequest struct {
	Identity model.Identity `json:"identity"`
}

type GetProfileResponse struct {
	Profile model.Profile `json:"profile"`
}

type SaveProfileRequest struct {
	UserID  string        `json:"userId"`
	Profile model.Profile `json:"profile"`
}

type FindDoctorByPatientCodeRequest struct {
	Code string `json:"code"`
}

type FindDoctorByPatientCodeResponse struct {
	DoctorID string `json:"doctorId"`
}

// Empty is the response of calls that return nothing.
type Empty struct{}
