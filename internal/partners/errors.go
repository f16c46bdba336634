package partners

import (
	"fmt"
	"net/http"
	"strings"
)

type response struct {
	Data   any           `json:"data"`
	Errors GraphQLErrors `json:"errors"`
}

// GraphQLError is one entry of a GraphQL "errors" array.
type GraphQLError struct {
	Message string `json:"message"`
	// Path mixes field names (string) and list indexes (float64).
	Path []any `json:"path,omitempty"`
}

// GraphQLErrors is returned when the API answers with query errors.
type GraphQLErrors []GraphQLError

func (e GraphQLErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Message
	}
	return "partners API: " + strings.Join(msgs, "; ")
}

// APIError is a non-2xx response.
type APIError struct {
	Status int
	Body   string
}

func newAPIError(status int, body string) *APIError {
	const maxBody = 512
	if len(body) > maxBody {
		body = body[:maxBody] + "..."
	}
	return &APIError{Status: status, Body: body}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("partners API responded %d %s: %s", e.Status, http.StatusText(e.Status), e.Body)
}

// Unwrap maps 401 responses to ErrUnauthorized.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}
