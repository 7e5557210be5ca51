package cpgw

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-retryable control-plane failure: any non-2xx response
// outside the 5xx range, or a 2xx whose body could not be parsed. It carries
// the status code and body verbatim.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// TransientError is a 5xx control-plane failure. The client retries these;
// one surfacing to a caller means retries were exhausted and it carries the
// last status and body seen.
type TransientError struct {
	StatusCode int
	Body       string
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.StatusCode, e.Body)
}

// isStatus checks if the error is a control-plane API error with one of the
// given status codes.
func isStatus(err error, codes ...int) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		for _, code := range codes {
			if apiErr.StatusCode == code {
				return true
			}
		}
	}
	return false
}

// IsNotFound checks if an error indicates the remote entity does not exist.
// Delete paths treat this as success.
func IsNotFound(err error) bool {
	return isStatus(err, http.StatusNotFound)
}

// IsConflict checks if an error indicates the entity already exists.
func IsConflict(err error) bool {
	return isStatus(err, http.StatusConflict)
}

// IsTransient checks if an error is a 5xx that survived retry exhaustion.
func IsTransient(err error) bool {
	var transientErr *TransientError
	return errors.As(err, &transientErr)
}
