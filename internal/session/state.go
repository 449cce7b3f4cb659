package session

import "github.com/naveenspark/findbuddy/pkg/domain"

// State is the lifecycle stage of the session.
type State int

const (
	StateLoggedOut State = iota
	StateResolving
	StateLoggedIn
	// StateInvalid is transient: it collapses to StateLoggedOut before
	// Restore returns.
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateLoggedOut:
		return "logged_out"
	case StateResolving:
		return "resolving"
	case StateLoggedIn:
		return "logged_in"
	case StateInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time copy of the session. Exactly one of User and
// Merchant is set when State is StateLoggedIn.
type Snapshot struct {
	Token    string
	Kind     domain.ActorKind
	User     *domain.User
	Merchant *domain.Merchant
	State    State
}

// LoggedIn reports whether the snapshot carries a resolved profile.
func (s Snapshot) LoggedIn() bool {
	return s.State == StateLoggedIn
}

// DisplayName is the name shown in headers and by `findbuddy whoami`.
func (s Snapshot) DisplayName() string {
	switch {
	case s.User != nil:
		return s.User.Name
	case s.Merchant != nil:
		return s.Merchant.BusinessName
	default:
		return ""
	}
}

// City returns the profile's home city, or "" when logged out.
func (s Snapshot) City() string {
	switch {
	case s.User != nil:
		return s.User.City
	case s.Merchant != nil:
		return s.Merchant.City
	default:
		return ""
	}
}
