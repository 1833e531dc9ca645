package storelib

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyGatewayURL   = errors.New("gateway URL cannot be empty")
	ErrInvalidGatewayURL = errors.New("invalid gateway URL")
	ErrEmptyLaunchRef    = errors.New("launch reference cannot be empty")
)

// Outcome classifies how an operation against the gateway or catalog ended.
// Every flow step resolves to one of these, so callers can tell "zero apps
// published" apart from "the server rejected us" without string matching.
type Outcome int

const (
	// OutcomeOK means the operation produced its expected artifacts.
	OutcomeOK Outcome = iota
	// OutcomeTransportError means the request itself failed (network/TLS).
	OutcomeTransportError
	// OutcomeLoginFailed means the gateway did not issue its session cookie
	// after the credential submission sequence.
	OutcomeLoginFailed
	// OutcomeProtocolMismatch means an expected cookie, header or body
	// pattern was absent from an otherwise successful exchange.
	OutcomeProtocolMismatch
	// OutcomeUnauthorized means the catalog rejected an authenticated-zone
	// call, typically because the session or CSRF token went stale.
	OutcomeUnauthorized
	// OutcomeNotAuthenticated means the caller skipped a required state
	// transition before invoking the operation.
	OutcomeNotAuthenticated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeTransportError:
		return "transport error"
	case OutcomeLoginFailed:
		return "login failed"
	case OutcomeProtocolMismatch:
		return "protocol mismatch"
	case OutcomeUnauthorized:
		return "unauthorized"
	case OutcomeNotAuthenticated:
		return "not authenticated"
	}
	return "unknown"
}

// StepError reports a failed protocol step together with its classification.
// Err is only set for transport failures; protocol-level failures carry the
// whole story in Step and Outcome.
type StepError struct {
	Step    string
	Outcome Outcome
	Err     error
}

func (e *StepError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s", e.Step, e.Outcome, e.Err.Error())
	}
	return fmt.Sprintf("%s: %s", e.Step, e.Outcome)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func stepErr(step string, outcome Outcome, err error) *StepError {
	return &StepError{Step: step, Outcome: outcome, Err: err}
}

// OutcomeOf extracts the Outcome from an error returned by a flow, catalog
// or descriptor operation. A nil error is OutcomeOK; a non-StepError is
// treated as a transport failure.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}
	var se *StepError
	if errors.As(err, &se) {
		return se.Outcome
	}
	return OutcomeTransportError
}
