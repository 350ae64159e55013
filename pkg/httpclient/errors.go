package httpclient

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedVerb is returned for verbs the client does not map to a transport call.
	ErrUnsupportedVerb = errors.New("unsupported http verb")
	// ErrMissingBaseURL is returned when the client is built without a base URL.
	ErrMissingBaseURL = errors.New("missing base url")
	// ErrMissingAPIKey is returned when the client is built without a credential.
	ErrMissingAPIKey = errors.New("missing api key")
)

// TransportError reports a request that never produced an HTTP response, after
// the retry policy was exhausted.
type TransportError struct {
	Verb     Verb
	Path     string
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s failed after %d attempt(s): %v", e.Verb, e.Path, e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
