/*
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package apperrors is the error taxonomy surfaced to callers (spec §7):
// a small set of stable Codes a GraphQL layer maps to extensions.code,
// wrapping an underlying cause the way fmt.Errorf's %w does.
package apperrors

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeUnauthenticated        Code = "UNAUTHENTICATED"
	CodeNotFound               Code = "NOT_FOUND"
	CodeBadInput               Code = "BAD_INPUT"
	CodeDriverAlreadyAssigned  Code = "DRIVER_ALREADY_ASSIGNED"
	CodeVehicleAlreadyAssigned Code = "VEHICLE_ALREADY_ASSIGNED"
	CodePortFailure            Code = "PORT_FAILURE"
	CodeConflict               Code = "CONFLICT"
)

// Error is the concrete error type every public planner operation returns
// on failure. Local conditions (bad input, not found, conflicts) are
// constructed directly; port/transaction failures wrap an underlying
// error with %w so the cause survives errors.Is/As.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func NotFound(kind, id string) *Error {
	return New(CodeNotFound, fmt.Sprintf("%s %q not found", kind, id))
}

func BadInput(message string) *Error {
	return New(CodeBadInput, message)
}

func Unauthenticated(message string) *Error {
	return New(CodeUnauthenticated, message)
}

func Conflict(message string) *Error {
	return New(CodeConflict, message)
}

func PortFailure(port string, cause error) *Error {
	return Wrap(CodePortFailure, fmt.Sprintf("%s port failed", port), cause)
}

// CodeOf extracts the Code from err if it (or something it wraps) is an
// *Error, defaulting to "" otherwise.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
