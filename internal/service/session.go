package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/medcompanion/internal/logger"
	"github.com/dtroode/medcompanion/internal/model"
)

// DefaultStorageKey is the key the signed-in identity is stored under.
const DefaultStorageKey = "@user"

const subscriberBuffer = 16

// Session owns who is signed in and which role-specific profile applies.
//
// Mutating operations are serialized: a call that arrives while another
// one waits on the key-value store or a source queues behind it. Readers
// never wait on boundary calls.
type Session struct {
	kv          model.KeyValueStore
	credentials model.CredentialSource
	profiles    model.ProfileSource
	hasher      model.PasswordHasher
	navigator   model.Navigator
	codes       patientCodeGenerator
	logger      *logger.Logger
	storageKey  string
	newID       func() string

	opMu sync.Mutex

	mu      sync.RWMutex
	state   sessionState
	subs    map[int]chan model.Snapshot
	nextSub int
}

type sessionState struct {
	phase    model.Phase
	identity *model.Identity
	profile  model.Profile
}

type patientCodeGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// NewSession creates a Session in the uninitialized phase. An empty
// storageKey selects DefaultStorageKey.
func NewSession(
	kv model.KeyValueStore,
	credentials model.CredentialSource,
	profiles model.ProfileSource,
	hasher model.PasswordHasher,
	navigator model.Navigator,
	logger *logger.Logger,
	storageKey string,
) *Session {
	if storageKey == "" {
		storageKey = DefaultStorageKey
	}
	return &Session{
		kv:          kv,
		credentials: credentials,
		profiles:    profiles,
		hasher:      hasher,
		navigator:   navigator,
		codes:       NewPatientCodes(profiles),
		logger:      logger,
		storageKey:  storageKey,
		newID:       uuid.NewString,
		state:       sessionState{phase: model.PhaseUninitialized},
		subs:        make(map[int]chan model.Snapshot),
	}
}

// Bootstrap restores a persisted identity. A missing or unreadable record
// leaves the session signed out; it is never reported as an error.
func (s *Session) Bootstrap(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if phase := s.current().phase; phase != model.PhaseUninitialized {
		return fmt.Errorf("failed to bootstrap session in phase %s: %w", phase, model.ErrInvalidState)
	}

	identity, ok := s.loadIdentity(ctx)
	if !ok {
		s.commit(sessionState{phase: model.PhaseUnauthenticated}, model.RouteShowLogin)
		return nil
	}

	profile := s.loadProfile(ctx, identity)
	s.commit(sessionState{
		phase:    model.PhaseAuthenticated,
		identity: &identity,
		profile:  profile,
	}, model.RouteShowMain)

	s.logger.Info("Session service: restored identity",
		"user_id", identity.ID,
		"role", identity.Role)

	return nil
}

// SignIn authenticates email and password against the credential source.
// Callers validate that both are non-empty.
func (s *Session) SignIn(ctx context.Context, email, password string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if phase := s.current().phase; phase != model.PhaseUnauthenticated {
		return fmt.Errorf("failed to sign in from phase %s: %w", phase, model.ErrInvalidState)
	}

	s.logger.Debug("Session service: signing in",
		"email", email)

	credential, err := s.credentials.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		s.logger.Info("Session service: sign in rejected, unknown email",
			"email", email)
		return model.ErrAuthentication
	}
	if err != nil {
		s.logger.Error("Session service: failed to find credentials",
			"email", email,
			"error", err.Error())
		return fmt.Errorf("failed to find credentials: %w", err)
	}

	if err := s.hasher.Compare(credential.PasswordHash, password); err != nil {
		if errors.Is(err, model.ErrAuthentication) {
			s.logger.Info("Session service: sign in rejected, password mismatch",
				"email", email)
			return model.ErrAuthentication
		}
		return fmt.Errorf("failed to verify password: %w", err)
	}

	identity := credential.Identity
	if err := s.saveIdentity(ctx, identity); err != nil {
		return err
	}

	profile := s.loadProfile(ctx, identity)
	s.commit(sessionState{
		phase:    model.PhaseAuthenticated,
		identity: &identity,
		profile:  profile,
	}, model.RouteShowMain)

	s.logger.Info("Session service: signed in",
		"user_id", identity.ID,
		"role", identity.Role)

	return nil
}

// SignUp registers a new account and signs it in. The session then waits
// for the role-specific profile to be completed.
func (s *Session) SignUp(ctx context.Context, email, password, name string, role model.Role) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if phase := s.current().phase; phase != model.PhaseUnauthenticated {
		return fmt.Errorf("failed to sign up from phase %s: %w", phase, model.ErrInvalidState)
	}
	if email == "" || password == "" || name == "" {
		return fmt.Errorf("email, password and name are required: %w", model.ErrValidation)
	}
	if !role.Valid() {
		return fmt.Errorf("unknown role %q: %w", role, model.ErrValidation)
	}

	s.logger.Debug("Session service: signing up",
		"email", email,
		"role", role)

	_, err := s.credentials.FindByEmail(ctx, email)
	if err == nil {
		s.logger.Info("Session service: email already registered",
			"email", email)
		return model.ErrEmailTaken
	}
	if !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to find credentials: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	identity := model.Identity{
		ID:    s.newID(),
		Name:  name,
		Email: email,
		Role:  role,
	}
	// The credential is registered last; a failed registration removes
	// the stored identity again.
	if err := s.saveIdentity(ctx, identity); err != nil {
		return err
	}

	if err := s.credentials.Create(ctx, model.Credential{Identity: identity, PasswordHash: hash}); err != nil {
		if rmErr := s.kv.Remove(ctx, s.storageKey); rmErr != nil {
			s.logger.Error("Session service: failed to remove stored identity after failed sign up",
				"user_id", identity.ID,
				"error", rmErr.Error())
		}
		if errors.Is(err, model.ErrEmailTaken) {
			return err
		}
		s.logger.Error("Session service: failed to register credentials",
			"email", email,
			"error", err.Error())
		return fmt.Errorf("failed to register credentials: %w", err)
	}

	s.commit(sessionState{
		phase:    model.PhaseProfileIncomplete,
		identity: &identity,
		profile:  model.EmptyProfile(role),
	}, model.SetupRoute(role))

	s.logger.Info("Session service: signed up",
		"user_id", identity.ID,
		"role", role)

	return nil
}

// UpdateProfile merges patch into the signed-in profile. The first
// successful update after sign-up completes profile setup. A linked doctor
// can only be set through LinkDoctor.
func (s *Session) UpdateProfile(ctx context.Context, patch model.ProfilePatch) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if linksDoctor(patch) {
		return fmt.Errorf("link a doctor with a patient code instead: %w", model.ErrValidation)
	}

	return s.updateProfile(ctx, patch)
}

func linksDoctor(patch model.ProfilePatch) bool {
	switch pp := patch.(type) {
	case model.PatientPatch:
		return pp.LinkedDoctorID != nil
	case *model.PatientPatch:
		return pp != nil && pp.LinkedDoctorID != nil
	}
	return false
}

// UpdatePatientProfile is UpdateProfile for patient sessions.
func (s *Session) UpdatePatientProfile(ctx context.Context, patch model.PatientPatch) error {
	return s.UpdateProfile(ctx, patch)
}

// UpdateDoctorProfile is UpdateProfile for doctor sessions.
func (s *Session) UpdateDoctorProfile(ctx context.Context, patch model.DoctorPatch) error {
	return s.UpdateProfile(ctx, patch)
}

// LinkDoctor links the signed-in patient to the doctor that owns
// patientCode.
func (s *Session) LinkDoctor(ctx context.Context, patientCode string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	cur := s.current()
	if cur.identity == nil {
		return fmt.Errorf("failed to link doctor from phase %s: %w", cur.phase, model.ErrInvalidState)
	}
	if cur.identity.Role != model.RolePatient {
		return fmt.Errorf("only patients can link a doctor: %w", model.ErrValidation)
	}

	doctorID, err := s.profiles.FindDoctorByPatientCode(ctx, patientCode)
	if errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("unknown patient code %q: %w", patientCode, model.ErrValidation)
	}
	if err != nil {
		return fmt.Errorf("failed to find doctor by patient code: %w", err)
	}

	return s.updateProfile(ctx, model.PatientPatch{LinkedDoctorID: &doctorID})
}

func (s *Session) updateProfile(ctx context.Context, patch model.ProfilePatch) error {
	cur := s.current()
	if cur.identity == nil {
		return fmt.Errorf("failed to update profile from phase %s: %w", cur.phase, model.ErrInvalidState)
	}
	if patch == nil {
		return fmt.Errorf("profile patch is nil: %w", model.ErrValidation)
	}
	if patch.Role() != cur.identity.Role {
		return fmt.Errorf("%s patch does not apply to a %s session: %w", patch.Role(), cur.identity.Role, model.ErrValidation)
	}
	if err := patch.Validate(); err != nil {
		return err
	}

	next, err := patch.ApplyTo(cur.profile)
	if err != nil {
		return err
	}

	firstCompletion := cur.phase == model.PhaseProfileIncomplete
	if firstCompletion && next.Doctor != nil && next.Doctor.PatientCode == nil {
		code, err := s.codes.Generate(ctx)
		if err != nil {
			return fmt.Errorf("failed to generate patient code: %w", err)
		}
		next.Doctor.PatientCode = &code
	}

	if err := s.profiles.Save(ctx, cur.identity.ID, next); err != nil {
		if errors.Is(err, model.ErrValidation) {
			return err
		}
		s.logger.Error("Session service: failed to save profile",
			"user_id", cur.identity.ID,
			"error", err.Error())
		return fmt.Errorf("failed to save profile: %w: %w", model.ErrPersistence, err)
	}

	nextState := sessionState{phase: cur.phase, identity: cur.identity, profile: next}
	route := model.RouteNone
	if firstCompletion {
		nextState.phase = model.PhaseAuthenticated
		route = model.RouteShowMain
	}
	s.commit(nextState, route)

	s.logger.Info("Session service: profile updated",
		"user_id", cur.identity.ID,
		"setup_completed", firstCompletion)

	return nil
}

// SignOut forgets the signed-in identity. It never fails: a store that
// cannot remove the record is logged and the session is cleared anyway.
func (s *Session) SignOut(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.kv.Remove(ctx, s.storageKey); err != nil {
		s.logger.Error("Session service: failed to remove stored identity",
			"key", s.storageKey,
			"error", err.Error())
	}

	cur := s.current()
	if cur.phase == model.PhaseUnauthenticated {
		return
	}

	s.commit(sessionState{phase: model.PhaseUnauthenticated}, model.RouteShowLogin)

	if cur.identity != nil {
		s.logger.Info("Session service: signed out",
			"user_id", cur.identity.ID)
	}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked(model.RouteNone)
}

// Phase returns the current phase.
func (s *Session) Phase() model.Phase {
	return s.current().phase
}

// Identity returns a copy of the signed-in identity, if any.
func (s *Session) Identity() (model.Identity, bool) {
	cur := s.current()
	if cur.identity == nil {
		return model.Identity{}, false
	}
	return *cur.identity, true
}

// Subscribe returns a channel that receives the current state right away
// and a snapshot after every transition. A subscriber that falls behind
// misses snapshots instead of blocking the session. The returned func
// closes the channel.
func (s *Session) Subscribe() (<-chan model.Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan model.Snapshot, subscriberBuffer)
	ch <- s.snapshotLocked(model.RouteNone)
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

func (s *Session) current() sessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

// commit publishes next and issues route. Only called with opMu held.
func (s *Session) commit(next sessionState, route model.Route) {
	s.mu.Lock()
	s.state = next
	snap := s.snapshotLocked(route)
	for id, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			s.logger.Debug("Session service: subscriber lagging, snapshot dropped",
				"subscriber", id)
		}
	}
	s.mu.Unlock()

	if route != model.RouteNone && s.navigator != nil {
		s.navigator.Replace(route)
	}
}

func (s *Session) snapshotLocked(route model.Route) model.Snapshot {
	snap := model.Snapshot{
		Phase:   s.state.phase,
		Patient: s.state.profile.Patient.Clone(),
		Doctor:  s.state.profile.Doctor.Clone(),
		Route:   route,
	}
	if s.state.identity != nil {
		identity := *s.state.identity
		snap.Identity = &identity
	}
	return snap
}

func (s *Session) loadIdentity(ctx context.Context) (model.Identity, bool) {
	raw, err := s.kv.Get(ctx, s.storageKey)
	if errors.Is(err, model.ErrNotFound) {
		s.logger.Debug("Session service: no stored identity",
			"key", s.storageKey)
		return model.Identity{}, false
	}
	if err != nil {
		s.logger.Warn("Session service: failed to read stored identity",
			"key", s.storageKey,
			"error", err.Error())
		return model.Identity{}, false
	}

	var identity model.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		s.logger.Warn("Session service: stored identity is corrupt",
			"key", s.storageKey,
			"error", err.Error())
		return model.Identity{}, false
	}
	if err := identity.Validate(); err != nil {
		s.logger.Warn("Session service: stored identity is invalid",
			"key", s.storageKey,
			"error", err.Error())
		return model.Identity{}, false
	}

	return identity, true
}

func (s *Session) saveIdentity(ctx context.Context, identity model.Identity) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to marshal identity: %w", err)
	}

	if err := s.kv.Set(ctx, s.storageKey, string(data)); err != nil {
		s.logger.Error("Session service: failed to persist identity",
			"user_id", identity.ID,
			"error", err.Error())
		return fmt.Errorf("failed to persist identity: %w: %w", model.ErrPersistence, err)
	}

	return nil
}

func (s *Session) loadProfile(ctx context.Context, identity model.Identity) model.Profile {
	profile, err := s.profiles.Get(ctx, identity)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Warn("Session service: failed to load profile",
				"user_id", identity.ID,
				"error", err.Error())
		}
		return model.EmptyProfile(identity.Role)
	}
	if profile.Role() != identity.Role {
		s.logger.Warn("Session service: stored profile does not match role",
			"user_id", identity.ID,
			"role", identity.Role)
		return model.EmptyProfile(identity.Role)
	}

	return profile
}
