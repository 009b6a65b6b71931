package gateway

import "fmt"

// AuthError reports a failed login. It is surfaced to the caller as-is;
// there is no automatic retry.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Reason
}

// TransportError reports a single failed controller call. Either Status
// (non-2xx response) or Err (network/decode failure) is set.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: controller returned status %d", e.Op, e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }
