package client

import (
	"fmt"
	"strconv"
)

// TransportError is a failed exchange with the API: the request could not be
// sent, the status was not 2xx, or the body could not be decoded.
type TransportError struct {
	Route      string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	return e.Message
}

func (e *TransportError) Unwrap() error { return e.Err }

// AuthError is a face login the API answered but rejected. The HTTP
// exchange itself may have succeeded.
type AuthError struct {
	StatusCode int
	Similarity float64
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("login rejected (similarity %s): %s", strconv.FormatFloat(e.Similarity, 'f', -1, 64), e.Message)
	}
	return fmt.Sprintf("login rejected (similarity %s)", strconv.FormatFloat(e.Similarity, 'f', -1, 64))
}
