package hermesapi

import (
	"errors"
	"fmt"
	"net/http"
)

// BadResponseLabel prefixes the message of every non-2xx response error so
// callers that only see strings can still triage by status code.
const BadResponseLabel = "Bad response - "

// ErrNotFound is returned when the backend answers 2xx but with no entity,
// e.g. an empty person list.
var ErrNotFound = errors.New("not found")

// ResponseError is a non-2xx answer from the backend.
type ResponseError struct {
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s%d: %s", BadResponseLabel, e.StatusCode, e.Body)
}

// Is lets errors.Is(err, ErrNotFound) match a 404 response.
func (e *ResponseError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// ErrorCode returns the HTTP status carried by err, if any.
func ErrorCode(err error) (int, bool) {
	var re *ResponseError
	if errors.As(err, &re) {
		return re.StatusCode, true
	}
	return 0, false
}
