package apiclient

import (
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/logitrack/clients/pkg/models"
)

// APIError is a response the server actually produced with a non-2xx
// status. Anything else (timeout, refused connection, malformed body)
// surfaces as a plain wrapped error.
type APIError struct {
	Status  int
	Message string
	Errors  models.FieldErrors
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsTimeout reports whether err means the request hit the client
// timeout or otherwise got no response from the network.
func IsTimeout(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
