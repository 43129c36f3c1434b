package memory

import (
	"fmt"

	"github.com/dtroode/medcompanion/internal/model"
)

var (
	errInvalidProfile   = fmt.Errorf("profile must carry exactly one variant: %w", model.ErrValidation)
	errPatientCodeTaken = fmt.Errorf("patient code is already in use: %w", model.ErrValidation)
	errUnknownDoctor    = fmt.Errorf("linked doctor does not exist: %w", model.ErrValidation)
)
