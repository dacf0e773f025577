package auth

import "context"

// Credentials holds the username and password exactly as typed.
type Credentials struct {
	Username string
	Password string
}

// Verdict is the business outcome of a register or login attempt.
type Verdict uint8

const (
	// VerdictAccepted means the remote service accepted the attempt.
	VerdictAccepted Verdict = iota + 1
	// VerdictRejected means the remote service answered but refused.
	VerdictRejected
)

func (v Verdict) String() string {
	switch v {
	case VerdictAccepted:
		return "accepted"
	case VerdictRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Outcome pairs a verdict with the human-readable message the remote
// service returned.
type Outcome struct {
	Verdict Verdict
	Message string
}

// Accepted returns an accepted Outcome carrying message.
func Accepted(message string) Outcome {
	return Outcome{Verdict: VerdictAccepted, Message: message}
}

// Rejected returns a rejected Outcome carrying message.
func Rejected(message string) Outcome {
	return Outcome{Verdict: VerdictRejected, Message: message}
}

// OK reports whether the attempt was accepted.
func (o Outcome) OK() bool {
	return o.Verdict == VerdictAccepted
}

// Service performs registration and login against the remote service.
// A non-nil error means no usable answer was received.
type Service interface {
	Register(ctx context.Context, c Credentials) (Outcome, error)
	Login(ctx context.Context, c Credentials) (Outcome, error)
}
