// Package shell drives a session from line commands and renders the
// screens its navigation intents ask for.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/dtroode/medcompanion/internal/logger"
	"github.com/dtroode/medcompanion/internal/model"
)

const minPasswordLength = 6

// Session is the part of service.Session the shell drives.
type Session interface {
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password, name string, role model.Role) error
	SignOut(ctx context.Context)
	UpdateProfile(ctx context.Context, patch model.ProfilePatch) error
	LinkDoctor(ctx context.Context, patientCode string) error
	Snapshot() model.Snapshot
}

var errQuit = errors.New("quit")

// Shell reads commands from in and writes prompts, screens and results
// to out.
type Shell struct {
	session Session
	routes  <-chan model.Route
	in      io.Reader
	out     io.Writer
	timeout time.Duration
	logger  *logger.Logger
}

// New creates a Shell. routes carries the session's navigation intents
// and may be nil. A zero timeout leaves commands unbounded.
func New(session Session, routes <-chan model.Route, in io.Reader, out io.Writer, timeout time.Duration, logger *logger.Logger) *Shell {
	return &Shell{
		session: session,
		routes:  routes,
		in:      in,
		out:     out,
		timeout: timeout,
		logger:  logger,
	}
}

// Run processes commands until quit, end of input or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	s.renderRoutes()
	for {
		s.printf("> ")

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			s.printf("\n")
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			s.printf("\n")
			select {
			case err := <-scanErr:
				if err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
			default:
			}
			return nil
		}

		err := s.Execute(ctx, line)
		s.renderRoutes()
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			s.printf("error: %s\n", describe(err))
		}
	}
}

// Execute runs a single command line.
func (s *Shell) Execute(ctx context.Context, line string) error {
	args, err := tokenize(line)
	if err != nil {
		return fmt.Errorf("%w: %w", err, model.ErrValidation)
	}
	if len(args) == 0 {
		return nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.logger.Debug("Shell: executing command",
		"command", args[0])

	switch cmd, rest := strings.ToLower(args[0]), args[1:]; cmd {
	case "help":
		s.printHelp()
		return nil
	case "signin", "login":
		return s.signIn(ctx, rest)
	case "signup", "register":
		return s.signUp(ctx, rest)
	case "signout", "logout":
		s.session.SignOut(ctx)
		return nil
	case "profile":
		return s.updateProfile(ctx, rest)
	case "link":
		return s.linkDoctor(ctx, rest)
	case "whoami", "show":
		s.printSnapshot(s.session.Snapshot())
		return nil
	case "quit", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q, try help: %w", cmd, model.ErrValidation)
	}
}

func (s *Shell) signIn(ctx context.Context, args []string) error {
	if len(args) != 2 || args[0] == "" || args[1] == "" {
		return fmt.Errorf("usage: signin <email> <password>: %w", model.ErrValidation)
	}
	return s.session.SignIn(ctx, args[0], args[1])
}

func (s *Shell) signUp(ctx context.Context, args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("usage: signup <patient|doctor> <email> <password> <name>: %w", model.ErrValidation)
	}

	role, err := model.ParseRole(args[0])
	if err != nil {
		return err
	}
	email, pass := args[1], args[2]
	name := strings.TrimSpace(strings.Join(args[3:], " "))

	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%q is not a valid email address: %w", email, model.ErrValidation)
	}
	if len(pass) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, model.ErrValidation)
	}
	if name == "" {
		return fmt.Errorf("name is required: %w", model.ErrValidation)
	}

	return s.session.SignUp(ctx, email, pass, name, role)
}

func (s *Shell) updateProfile(ctx context.Context, args []string) error {
	snap := s.session.Snapshot()
	if snap.Identity == nil {
		return fmt.Errorf("sign in first: %w", model.ErrInvalidState)
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: profile <field>=<value> ...: %w", model.ErrValidation)
	}

	fields := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return fmt.Errorf("expected field=value, got %q: %w", arg, model.ErrValidation)
		}
		fields[key] = value
	}

	patch, err := model.ParseProfilePatch(snap.Identity.Role, fields)
	if err != nil {
		return err
	}
	if err := s.session.UpdateProfile(ctx, patch); err != nil {
		return err
	}

	s.printf("Profile saved.\n")
	return nil
}

func (s *Shell) linkDoctor(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: link <patient code>: %w", model.ErrValidation)
	}
	if err := s.session.LinkDoctor(ctx, strings.ToUpper(args[0])); err != nil {
		return err
	}

	s.printf("Doctor linked.\n")
	return nil
}

func (s *Shell) renderRoutes() {
	if s.routes == nil {
		return
	}
	for {
		select {
		case route := <-s.routes:
			s.renderScreen(route)
		default:
			return
		}
	}
}

func (s *Shell) renderScreen(route model.Route) {
	switch route {
	case model.RouteShowLogin:
		s.printf("\n== Sign in ==\nsignin <email> <password>, or signup <patient|doctor> <email> <password> <name>\n")
	case model.RouteShowMain:
		s.printf("\n== Home ==\n")
		s.printSnapshot(s.session.Snapshot())
	case model.RouteShowPatientSetup:
		s.printf("\n== Patient profile setup ==\nprofile age=<n> gender=<male|female|other> weight=<kg> height=<cm> bloodType=<type> allergies=<a,b> conditions=<a,b>\nlink <patient code> connects you to your doctor\n")
	case model.RouteShowDoctorSetup:
		s.printf("\n== Doctor profile setup ==\nprofile specialization=<s> experience=<years> clinicInfo=<s> education=<s> licenseNumber=<s>\n")
	default:
		s.logger.Warn("Shell: unknown route",
			"route", string(route))
	}
}

func (s *Shell) printSnapshot(snap model.Snapshot) {
	if snap.Identity == nil {
		s.printf("Not signed in.\n")
		return
	}

	id := snap.Identity
	s.printf("%s <%s> (%s), %s\n", id.Name, id.Email, id.Role, strings.ReplaceAll(snap.Phase.String(), "_", " "))

	switch {
	case snap.Patient != nil:
		p := snap.Patient
		printField(s, "Age", p.Age)
		printField(s, "Gender", p.Gender)
		printField(s, "Weight", p.Weight)
		printField(s, "Height", p.Height)
		printField(s, "Blood type", p.BloodType)
		if len(p.Allergies) > 0 {
			s.printf("  Allergies: %s\n", strings.Join(p.Allergies, ", "))
		}
		if len(p.Conditions) > 0 {
			s.printf("  Conditions: %s\n", strings.Join(p.Conditions, ", "))
		}
		printField(s, "Linked doctor", p.LinkedDoctorID)
	case snap.Doctor != nil:
		d := snap.Doctor
		printField(s, "Specialization", d.Specialization)
		printField(s, "Experience", d.Experience)
		printField(s, "Clinic", d.ClinicInfo)
		printField(s, "Patient code", d.PatientCode)
		printField(s, "Education", d.Education)
		printField(s, "License", d.LicenseNumber)
	}
}

func printField[T any](s *Shell, label string, v *T) {
	if v != nil {
		s.printf("  %s: %v\n", label, *v)
	}
}

func (s *Shell) printHelp() {
	s.printf(`Commands:
  signin <email> <password>
  signup <patient|doctor> <email> <password> <name>
  signout
  profile <field>=<value> ...
  link <patient code>
  whoami
  quit
`)
}

func (s *Shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

func describe(err error) string {
	switch {
	case errors.Is(err, model.ErrAuthentication):
		return "invalid email or password"
	case errors.Is(err, model.ErrEmailTaken):
		return "this email is already registered"
	case errors.Is(err, model.ErrPersistence):
		return "could not save your data, please try again"
	case errors.Is(err, context.DeadlineExceeded):
		return "the operation timed out"
	default:
		return err.Error()
	}
}
