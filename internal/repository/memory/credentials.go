// Package memory holds in-process credential and profile tables. The
// seeded variants carry the demo accounts used by the companion app.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dtroode/medcompanion/internal/model"
)

var _ model.CredentialSource = (*Credentials)(nil)

// Credentials is a model.CredentialSource keyed by lower-cased email.
type Credentials struct {
	mu      sync.RWMutex
	byEmail map[string]model.Credential
}

// NewCredentials creates a table holding the given records.
func NewCredentials(records ...model.Credential) *Credentials {
	c := &Credentials{byEmail: make(map[string]model.Credential, len(records))}
	for _, r := range records {
		c.byEmail[normalizeEmail(r.Identity.Email)] = cloneCredential(r)
	}
	return c
}

// DemoPassword is the password of every seeded demo account.
const DemoPassword = "password"

// DemoIdentities are the accounts present in a seeded table.
var DemoIdentities = []model.Identity{
	{
		ID:           "1",
		Name:         "John Doe",
		Email:        "patient@example.com",
		Role:         model.RolePatient,
		ProfileImage: "https://randomuser.me/api/portraits/men/32.jpg",
	},
	{
		ID:           "2",
		Name:         "Dr. Jane Smith",
		Email:        "doctor@example.com",
		Role:         model.RoleDoctor,
		ProfileImage: "https://randomuser.me/api/portraits/women/44.jpg",
	},
}

// NewSeededCredentials creates a table with the demo accounts, hashing
// DemoPassword with hasher.
func NewSeededCredentials(hasher model.PasswordHasher) (*Credentials, error) {
	records := make([]model.Credential, 0, len(DemoIdentities))
	for _, identity := range DemoIdentities {
		hash, err := hasher.Hash(DemoPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to hash demo password: %w", err)
		}
		records = append(records, model.Credential{Identity: identity, PasswordHash: hash})
	}
	return NewCredentials(records...), nil
}

func (c *Credentials) FindByEmail(_ context.Context, email string) (model.Credential, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.byEmail[normalizeEmail(email)]
	if !ok {
		return model.Credential{}, model.ErrNotFound
	}
	return cloneCredential(r), nil
}

func (c *Credentials) Create(_ context.Context, credential model.Credential) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := normalizeEmail(credential.Identity.Email)
	if _, ok := c.byEmail[key]; ok {
		return model.ErrEmailTaken
	}
	c.byEmail[key] = cloneCredential(credential)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func cloneCredential(c model.Credential) model.Credential {
	c.PasswordHash = append([]byte(nil), c.PasswordHash...)
	return c
}
