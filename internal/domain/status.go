package domain

import "errors"

// Status is the moderation state shared by enquiries and testimonials.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Decision is an admin moderation action on an enquiry.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// ErrAlreadyDecided is returned by a strict transition out of a non-pending state.
var ErrAlreadyDecided = errors.New("enquiry has already been decided")

// Next returns the status a decision leads to from s.
//
// In permissive mode any status accepts any decision, so repeating an
// approval rewrites the same value. In strict mode only pending may be
// decided; everything else is terminal.
func (s Status) Next(d Decision, strict bool) (Status, error) {
	if strict && s != StatusPending {
		return s, ErrAlreadyDecided
	}
	switch d {
	case DecisionApprove:
		return StatusApproved, nil
	case DecisionReject:
		return StatusRejected, nil
	}
	return s, errors.New("unknown decision: " + string(d))
}
