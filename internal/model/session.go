package model

// Phase is the lifecycle state of a session.
type Phase int

const (
	// PhaseUninitialized is the state before Bootstrap ran.
	PhaseUninitialized Phase = iota
	// PhaseUnauthenticated means nobody is signed in.
	PhaseUnauthenticated
	// PhaseProfileIncomplete means a freshly signed-up identity has not finished profile setup.
	PhaseProfileIncomplete
	// PhaseAuthenticated means an identity is signed in with a completed profile.
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseUnauthenticated:
		return "unauthenticated"
	case PhaseProfileIncomplete:
		return "profile_incomplete"
	case PhaseAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// Authenticated reports whether an identity is signed in.
func (p Phase) Authenticated() bool {
	return p == PhaseProfileIncomplete || p == PhaseAuthenticated
}

// Route is a navigation intent emitted by a session transition.
type Route string

const (
	// RouteNone means the transition does not ask for navigation.
	RouteNone Route = ""
	// RouteShowLogin shows the login surface.
	RouteShowLogin Route = "login"
	// RouteShowMain shows the main application surface.
	RouteShowMain Route = "main"
	// RouteShowPatientSetup shows the patient profile setup surface.
	RouteShowPatientSetup Route = "patient-profile-setup"
	// RouteShowDoctorSetup shows the doctor profile setup surface.
	RouteShowDoctorSetup Route = "doctor-profile-setup"
)

// SetupRoute returns the profile setup surface for role.
func SetupRoute(role Role) Route {
	if role == RoleDoctor {
		return RouteShowDoctorSetup
	}
	return RouteShowPatientSetup
}

// Snapshot is a copy of session state published to readers and
// subscribers. Route is the intent issued by the transition that
// produced it.
type Snapshot struct {
	Phase    Phase
	Identity *Identity
	Patient  *PatientProfile
	Doctor   *DoctorProfile
	Route    Route
}
