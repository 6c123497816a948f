// Package errs provides the error types the web layer reports to clients.
package errs

import "errors"

// Response is the JSON envelope returned to clients when a request fails.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted pairs an error with an HTTP status code so a handler can state
// exactly what the client is allowed to see. Errors that are not trusted
// surface as a bare 500.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted wraps the provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// Error implements the error interface. It uses the message of the
// wrapped error, which is what ends up in the service logs.
func (t *Trusted) Error() string {
	return t.Err.Error()
}

// IsTrusted reports whether the error chain contains a Trusted error.
func IsTrusted(err error) bool {
	var t *Trusted
	return errors.As(err, &t)
}

// GetTrusted pulls the Trusted error out of the error chain.
func GetTrusted(err error) *Trusted {
	var t *Trusted
	if !errors.As(err, &t) {
		return nil
	}
	return t
}
