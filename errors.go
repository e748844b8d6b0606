// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package corerpc

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAuthentication is returned by New when it is invoked with
	// AuthNone.  Bitcoin Core requires credentials on its RPC interface, so
	// the authenticated constructor refuses to build a transport without
	// them.  Callers that configure authentication out of band can use
	// NewWithTransport instead.
	ErrMissingAuthentication = errors.New("authentication is required but " +
		"none was provided")

	// ErrInvalidCookieFile is returned when a cookie file is missing,
	// unreadable, empty, or does not contain a colon-separated
	// username:password line.  Errors caused by the underlying filesystem
	// wrap the original error in addition to this one.
	ErrInvalidCookieFile = errors.New("invalid cookie file")
)

// InvalidResponseError describes a response from the RPC server that does not
// match the shape the invoked method requires, such as a value of the wrong
// JSON type, a missing field, or bytes that fail consensus decoding.  The
// Description states what was expected.
type InvalidResponseError struct {
	// Method is the RPC method whose response was rejected when known.
	Method string

	// Description is a human-readable description of what was expected.
	Description string

	// Err is the underlying decode error when one exists.
	Err error
}

// Error satisfies the error interface and prints human-readable errors.
func (e *InvalidResponseError) Error() string {
	msg := "invalid response"
	if e.Method != "" {
		msg += " for " + e.Method
	}
	if e.Description != "" {
		msg += ": " + e.Description
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error, if any.
func (e *InvalidResponseError) Unwrap() error {
	return e.Err
}

// HexError describes a failure to decode hex-encoded data supplied by the RPC
// server, either while converting a hex string to raw bytes or while parsing
// a fixed-length hash.
type HexError struct {
	// Value is the server-supplied string that failed to decode.
	Value string

	// Err is the underlying decode error.
	Err error
}

// Error satisfies the error interface and prints human-readable errors.
func (e *HexError) Error() string {
	return fmt.Sprintf("invalid hex %q: %v", e.Value, e.Err)
}

// Unwrap returns the underlying error.
func (e *HexError) Unwrap() error {
	return e.Err
}
