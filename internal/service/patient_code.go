package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/dtroode/medcompanion/internal/model"
)

const (
	patientCodePrefix   = "DOC"
	patientCodeMin      = 1000
	patientCodeSpan     = 9000
	patientCodeAttempts = 10
)

// ErrPatientCodeExhausted is returned when no free patient code was found.
var ErrPatientCodeExhausted = errors.New("no free patient code found")

type doctorLookup interface {
	FindDoctorByPatientCode(ctx context.Context, code string) (string, error)
}

// PatientCodes generates patient codes of the form DOC1234 that no doctor
// holds yet.
type PatientCodes struct {
	lookup doctorLookup
	rand   func() (int64, error)
}

func NewPatientCodes(lookup doctorLookup) *PatientCodes {
	return &PatientCodes{lookup: lookup, rand: randomCodeNumber}
}

// Generate returns a code that is unused at the time of the call.
func (p *PatientCodes) Generate(ctx context.Context) (string, error) {
	for range patientCodeAttempts {
		n, err := p.rand()
		if err != nil {
			return "", fmt.Errorf("failed to read random number: %w", err)
		}
		code := fmt.Sprintf("%s%d", patientCodePrefix, patientCodeMin+n)

		_, err = p.lookup.FindDoctorByPatientCode(ctx, code)
		if errors.Is(err, model.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check patient code: %w", err)
		}
	}

	return "", ErrPatientCodeExhausted
}

func randomCodeNumber() (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(patientCodeSpan))
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}
