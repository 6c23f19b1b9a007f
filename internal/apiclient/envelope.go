package apiclient

import (
	"bytes"
	"encoding/json"
	"strings"
)

// The backend answers in one of two envelope shapes and the client must
// tolerate both indefinitely: the current shape carries a `success` boolean,
// the legacy one a numeric `status` where 0 means success. Discrimination
// happens in exactly one place so call sites never duck-type.

type envelopeKind int

const (
	envelopeUnknown envelopeKind = iota
	envelopeSuccess
	envelopeLegacy
)

const legacyStatusSuccess = 0

type errorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

type envelope struct {
	Success *bool           `json:"success,omitempty"`
	Status  *int            `json:"status,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   *errorDetail    `json:"error,omitempty"`
}

func (e *envelope) kind() envelopeKind {
	switch {
	case e.Success != nil:
		return envelopeSuccess
	case e.Status != nil:
		return envelopeLegacy
	default:
		return envelopeUnknown
	}
}

func (e *envelope) failureMessage(fallback string) string {
	if e.Error != nil {
		if msg := strings.TrimSpace(e.Error.Message); msg != "" {
			return msg
		}
		if hint := strings.TrimSpace(e.Error.Hint); hint != "" {
			return hint
		}
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	return fallback
}

func rawIsNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeEnvelope normalizes a response body into the payload bytes or an
// APIError carrying the server's message. httpStatus is the transport status
// the body arrived with.
func decodeEnvelope(body []byte, httpStatus int) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, ErrMalformedResponse
	}

	switch env.kind() {
	case envelopeSuccess:
		if *env.Success {
			if rawIsNull(env.Data) {
				// Some endpoints inline the payload next to the success flag.
				return json.RawMessage(body), nil
			}
			return env.Data, nil
		}
		return nil, &APIError{Status: httpStatus, Message: env.failureMessage(genericRequestFailed)}
	case envelopeLegacy:
		if *env.Status == legacyStatusSuccess {
			return env.Data, nil
		}
		return nil, &APIError{Status: httpStatus, Message: env.failureMessage(genericRequestFailed)}
	default:
		return nil, ErrMalformedResponse
	}
}

// failureFromBody extracts a display message from an HTTP-error body without
// requiring a recognizable envelope.
func failureFromBody(body []byte, httpStatus int) *APIError {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &APIError{Status: httpStatus, Message: genericRequestFailed}
	}
	return &APIError{Status: httpStatus, Message: env.failureMessage(genericRequestFailed)}
}
