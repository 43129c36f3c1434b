package model

import (
	"fmt"
	"strings"
)

// Role is the account type an identity signs in as.
type Role string

const (
	// RolePatient is a patient account.
	RolePatient Role = "patient"
	// RoleDoctor is a doctor account.
	RoleDoctor Role = "doctor"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RolePatient || r == RoleDoctor
}

// ParseRole converts user input into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q: %w", s, ErrValidation)
	}
	return r, nil
}

// Identity is the authenticated user's core record. It is the only
// value written to the key-value store.
type Identity struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// Validate checks that the identity can back a session.
func (i Identity) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("identity id is empty: %w", ErrValidation)
	}
	if i.Email == "" {
		return fmt.Errorf("identity email is empty: %w", ErrValidation)
	}
	if !i.Role.Valid() {
		return fmt.Errorf("identity role %q is unknown: %w", i.Role, ErrValidation)
	}
	return nil
}

// Credential is a Credential Source record: the identity plus the secret
// needed to verify a sign-in.
type Credential struct {
	Identity     Identity `json:"identity"`
	PasswordHash []byte   `json:"passwordHash"`
}
