package adapters

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"chatlist-server/internal/domain/dispatch"
)

const maxErrorBodyLen = 300

// classifyStatus maps a provider's HTTP error status to an outcome kind.
// Pure so adapter tests can exercise the full table without a server.
func classifyStatus(status int, body string) *dispatch.OutcomeError {
	kind := dispatch.ErrKindNetwork
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = dispatch.ErrKindAuth
	case status == http.StatusPaymentRequired:
		kind = dispatch.ErrKindPaymentRequired
	case status == http.StatusTooManyRequests:
		kind = dispatch.ErrKindRateLimited
	}
	return &dispatch.OutcomeError{
		Kind:    kind,
		Message: fmt.Sprintf("provider returned %d: %s", status, snippet(body)),
	}
}

// classifyTransport maps a failed round trip to an outcome kind.
func classifyTransport(err error) *dispatch.OutcomeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &dispatch.OutcomeError{Kind: dispatch.ErrKindTimeout, Message: "request deadline exceeded"}
	case errors.Is(err, context.Canceled):
		return &dispatch.OutcomeError{Kind: dispatch.ErrKindCancelled, Message: "request cancelled"}
	default:
		return &dispatch.OutcomeError{Kind: dispatch.ErrKindNetwork, Message: err.Error()}
	}
}

func malformed(err error) *dispatch.OutcomeError {
	return &dispatch.OutcomeError{
		Kind:    dispatch.ErrKindMalformedResponse,
		Message: "could not decode provider response: " + err.Error(),
	}
}

func snippet(body string) string {
	body = strings.TrimSpace(body)
	if len(body) > maxErrorBodyLen {
		body = body[:maxErrorBodyLen] + "..."
	}
	if body == "" {
		return "(empty body)"
	}
	return body
}
