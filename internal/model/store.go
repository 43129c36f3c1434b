package model

import "context"

// KeyValueStore persists serialized records under string keys.
type KeyValueStore interface {
	// Get returns ErrNotFound when key is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Remove succeeds when key is already absent.
	Remove(ctx context.Context, key string) error
}

// CredentialSource resolves sign-in emails to credential records.
type CredentialSource interface {
	// FindByEmail returns ErrNotFound when no account uses email.
	FindByEmail(ctx context.Context, email string) (Credential, error)
	// Create returns ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, credential Credential) error
}

// ProfileSource loads and stores role-specific profiles.
type ProfileSource interface {
	// Get returns ErrNotFound when the identity has no stored profile.
	Get(ctx context.Context, identity Identity) (Profile, error)
	Save(ctx context.Context, userID string, profile Profile) error
	// FindDoctorByPatientCode returns the id of the doctor owning code, or ErrNotFound.
	FindDoctorByPatientCode(ctx context.Context, code string) (string, error)
}

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) ([]byte, error)
	// Compare returns ErrAuthentication when password does not match hash.
	Compare(hash []byte, password string) error
}

// Navigator acts on navigation intents. Replace must not block.
type Navigator interface {
	Replace(route Route)
}
