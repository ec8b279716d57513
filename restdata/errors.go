// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"

	"github.com/diffeo/go-objects/objects"
)

var errBadPatchName = errors.New("Patch 'name' must be a string")
var errBadPatchData = errors.New("Patch 'data' must be an object or null")

// ErrorStatus describes errors that correspond to specific HTTP
// status codes.
type ErrorStatus interface {
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrUnsupportedMediaType is returned from Decode() if the provided
// Content-Type: is unrecognized.  This translates directly into the
// equivalent HTTP 415 error.
type ErrUnsupportedMediaType struct {
	Type string
}

func (e ErrUnsupportedMediaType) Error() string {
	return fmt.Sprintf("Unsupported media type %q", e.Type)
}

// HTTPStatus returns a fixed 415 Unsupported Media Type error code.
func (e ErrUnsupportedMediaType) HTTPStatus() int {
	return http.StatusUnsupportedMediaType
}

// ErrNotFound is a wrapper error that indicates that, due to the
// embedded error, a REST service should return a 404 Not Found error.
type ErrNotFound struct {
	Err error
}

func (e ErrNotFound) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 404 Not Found error code.
func (e ErrNotFound) HTTPStatus() int {
	return http.StatusNotFound
}

// ErrBadRequest is returned as an error when there is an error
// decoding HTTP headers or the request body, or when input fails
// validation before reaching the store.
type ErrBadRequest struct {
	Err error
}

func (e ErrBadRequest) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 400 Bad Request HTTP status code.
func (e ErrBadRequest) HTTPStatus() int {
	return http.StatusBadRequest
}

// FromError populates an ErrorResponse to fill in its fields based
// on an error value.  This remaps the well-known objects errors to
// specific e.Error codes.
func (e *ErrorResponse) FromError(err error) {
	switch err {
	case objects.ErrNoName:
		e.Error = "ErrNoName"
	case objects.ErrNoID:
		e.Error = "ErrNoID"
	case objects.ErrEmptyPatch:
		e.Error = "ErrEmptyPatch"
	}
	switch et := err.(type) {
	case objects.ErrNoSuchObject:
		e.Error = "ErrNoSuchObject"
		e.Value = et.ID
	case ErrNotFound:
		// Discard this wrapper and report the embedded error
		e.FromError(et.Err)
	case ErrBadRequest:
		e.FromError(et.Err)
	}
}

// ToError converts e back to an objects error, if that is possible.
// If not, returns a plain error with e.Message text.
func (e *ErrorResponse) ToError() error {
	switch e.Error {
	case "ErrNoName":
		return objects.ErrNoName
	case "ErrNoID":
		return objects.ErrNoID
	case "ErrEmptyPatch":
		return objects.ErrEmptyPatch
	case "ErrNoSuchObject":
		return objects.ErrNoSuchObject{ID: e.Value}
	default:
		return errors.New(e.Message)
	}
}

// FromPanic populates an error response based on a panic.  Typical
// use is:
//
//	defer func() {
//	    if obj := recover(); obj != nil {
//	        resp := restdata.ErrorResponse{}
//	        resp.FromPanic(obj)
//	        // write resp out as makes sense
//	    }
//	}
func (e *ErrorResponse) FromPanic(obj interface{}) {
	e.Error = "panic"
	if recoveredError, isError := obj.(error); isError {
		e.Message = recoveredError.Error()
	} else {
		e.Message = fmt.Sprintf("%+v", obj)
	}
	var stack [4096]byte
	len := runtime.Stack(stack[:], false)
	e.Stack = string(stack[:len])
}
