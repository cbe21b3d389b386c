package dispatch

import (
	"time"

	"chatlist-server/internal/domain/model"
)

// ErrorKind classifies why a single model request failed. Kinds are
// stable strings so they survive persistence and metric labels.
type ErrorKind string

const (
	ErrKindTimeout           ErrorKind = "timeout"
	ErrKindAuth              ErrorKind = "auth_error"
	ErrKindRateLimited       ErrorKind = "rate_limited"
	ErrKindPaymentRequired   ErrorKind = "payment_required"
	ErrKindNetwork           ErrorKind = "network_error"
	ErrKindMalformedResponse ErrorKind = "malformed_response"
	ErrKindCancelled         ErrorKind = "cancelled"
)

// OutcomeError carries the failure classification for one model request.
type OutcomeError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *OutcomeError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// Outcome is the result of asking exactly one model. A dispatch over N
// models yields exactly N outcomes, success or failure alike.
type Outcome struct {
	Model       model.Model   `json:"model"`
	Text        string        `json:"text,omitempty"`
	TokensUsed  int           `json:"tokens_used,omitempty"`
	Elapsed     time.Duration `json:"elapsed"`
	CompletedAt time.Time     `json:"completed_at"`
	Err         *OutcomeError `json:"error,omitempty"`
}

// OK reports whether the model answered successfully.
func (o Outcome) OK() bool {
	return o.Err == nil
}
