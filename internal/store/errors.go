package store

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// APIError is a non-2xx response from the entity store.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("store: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("store: request failed (status %d)", e.StatusCode)
}

// newAPIError builds an APIError from a failed response body. Error bodies
// vary across store deployments, so the message is probed from the common
// JSON fields rather than decoded against a fixed schema.
func newAPIError(statusCode int, body []byte) *APIError {
	msg := ""
	for _, field := range []string{"message", "error", "detail"} {
		if v := gjson.GetBytes(body, field); v.Exists() && v.String() != "" {
			msg = v.String()
			break
		}
	}
	return &APIError{StatusCode: statusCode, Message: msg}
}
