package apiclient

import "errors"

var ErrMalformedResponse = errors.New("malformed response envelope")

// Fallback strings shown when the server did not supply a message of its own.
const (
	genericRequestFailed = "Request failed, please try again later."
	genericNetworkError  = "Network error, please check your connection."
)

// APIError is the normalized failure every caller sees. Message is the single
// display-ready string resolved by the precedence error.message, error.hint,
// top-level message, generic fallback.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
