// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restdata defines common data structures shared between the
// restserver and restclient packages.  Generally JSON encodings of
// these are passed across the wire as the
// application/vnd.diffeo.objects.v1+json MIME type, though the
// server also accepts and produces plain application/json.
//
// API Usage
//
// HTTP GET the root document at its specified URL.  This will return
// a JSON serialization of the RootData object.  That serialization
// has links to the objects collection; follow these links, filling in
// template values, to get to individual objects.
//
// The ObjectURL field is an RFC 6570 URI template, a URL string with
// a {parameter} in curly braces.  If the system is rooted at /, a
// JSON serialization of RootData will look like
//
//	{
//	    "objects_url": "/objects",
//	    "object_url": "/objects/{id}"
//	}
//
// While the URL structure is predictable and formulaic, it is not
// actually part of the API contract.  The only specific guarantee is
// that retrieving the root resource will return a serialization of
// RootData.
//
// Object identifiers are assigned by the server and are plain hex
// strings, so they can be inserted into URLs without escaping.
//
// Timestamps, when they appear, are represented in JSON as RFC 3339
// strings, "2012-03-04T05:06:07.890Z".
//
// HTTP Considerations
//
// The objects collection supports HTTP GET, returning a JSON array
// of Object, and HTTP POST, submitting an ObjectUpsert and returning
// 201 Created with the new Object.  A single object supports HTTP
// GET; HTTP PUT with an ObjectUpsert body, replacing the name and
// payload wholesale; HTTP PATCH with an ObjectPatch body, updating
// only the supplied fields; and HTTP DELETE, returning a
// DeletedResponse.
//
// PUT and PATCH treat the "data" key differently.  A PUT body with
// no "data" key resets the payload to null, because a PUT replaces
// the entire mutable state of the object.  A PATCH body with no
// "data" key leaves the payload alone, while a PATCH body with an
// explicit "data": null clears it.
//
// Errors
//
// Errors are returned as failing HTTP statuses whose bodies are
// encodings of the ErrorResponse type.  This can round-trip all of
// the objects package's errors but may return other errors as plain
// strings that are not the same values as other standard errors.
// Invalid input is 400 Bad Request, a missing object is 404 Not
// Found, and an unrecognized request body type is 415 Unsupported
// Media Type.
//
// If Go server code panics, this is captured and returned as an
// ErrorResponse with error code "panic".
package restdata

import (
	"time"

	"github.com/diffeo/go-objects/objects"
)

// V1JSONMediaType is the preferred, most specific MIME type for the
// JSON representation of this content.
const V1JSONMediaType = "application/vnd.diffeo.objects.v1+json"

// JSONMediaType requests the most recent version of the JSON
// representation of this content.
const JSONMediaType = "application/vnd.diffeo.objects+json"

// RootData is returned by the root path.
type RootData struct {
	// ObjectsURL points at the objects collection.  This endpoint
	// supports HTTP GET to return a JSON array of Object, and
	// HTTP POST to submit an ObjectUpsert and create a new
	// object.
	ObjectsURL string `json:"objects_url"`

	// ObjectURL points at the representation of a single object.
	// This endpoint supports HTTP GET, PUT, PATCH, and DELETE.
	// This field is a URI template with a single parameter, "id",
	// which should be substituted for the object's identifier.
	ObjectURL string `json:"object_url"`
}

// Object is the wire representation of a single record.
type Object struct {
	// ID holds the server-assigned identifier of the object.
	// This field does not need to be provided when posting data.
	ID string `json:"id"`

	// Name holds the required label of the object.
	Name string `json:"name"`

	// Data holds the free-form payload, or null.
	Data objects.DataDict `json:"data"`

	// CreatedAt and UpdatedAt hold the server-managed timestamps.
	// They are never provided when posting data.
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// FromRecord fills in the wire representation from a store record.
func (o *Object) FromRecord(record objects.Record) {
	o.ID = record.ID
	o.Name = record.Name
	o.Data = record.Data
	if !record.CreatedAt.IsZero() {
		createdAt := record.CreatedAt
		o.CreatedAt = &createdAt
	}
	if !record.UpdatedAt.IsZero() {
		updatedAt := record.UpdatedAt
		o.UpdatedAt = &updatedAt
	}
}

// ToRecord converts the wire representation back to a store record.
func (o Object) ToRecord() objects.Record {
	record := objects.Record{
		ID:   o.ID,
		Name: o.Name,
		Data: o.Data,
	}
	if o.CreatedAt != nil {
		record.CreatedAt = *o.CreatedAt
	}
	if o.UpdatedAt != nil {
		record.UpdatedAt = *o.UpdatedAt
	}
	return record
}

// ObjectUpsert is the request body for creating an object (HTTP POST
// to the collection) or replacing one (HTTP PUT to an object).  An
// absent "data" key and an explicit "data": null are equivalent: in
// both cases the resulting payload is null.
type ObjectUpsert struct {
	Name string           `json:"name"`
	Data objects.DataDict `json:"data"`
}

// ObjectPatch is the request body for a partial update (HTTP PATCH
// to an object).  It is deliberately a raw map rather than a struct
// so that an absent key can be told apart from an explicit null.
type ObjectPatch map[string]interface{}

// ToPatch converts the raw patch body into a store patch, validating
// the types of the supplied fields.  Returns ErrBadRequest for a
// non-string name or a data value that is neither null nor an
// object.
func (p ObjectPatch) ToPatch() (objects.Patch, error) {
	var patch objects.Patch
	if nameValue, present := p["name"]; present {
		name, isString := nameValue.(string)
		if !isString {
			return patch, ErrBadRequest{Err: errBadPatchName}
		}
		patch.Name = &name
	}
	if dataValue, present := p["data"]; present {
		var data objects.DataDict
		switch typed := dataValue.(type) {
		case nil:
			// explicit null: clear the payload
		case map[string]interface{}:
			data = objects.DataDict(typed)
		case objects.DataDict:
			data = typed
		default:
			return patch, ErrBadRequest{Err: errBadPatchData}
		}
		patch.Data = &data
	}
	return patch, nil
}

// FromPatch builds the wire body for a store patch.  This is the
// inverse of ToPatch and is used by the REST client.
func FromPatch(patch objects.Patch) ObjectPatch {
	body := make(ObjectPatch)
	if patch.Name != nil {
		body["name"] = *patch.Name
	}
	if patch.Data != nil {
		// A nil dictionary serializes as null, which the
		// server reads as "clear the payload".
		body["data"] = map[string]interface{}(*patch.Data)
	}
	return body
}

// DeletedResponse is the response body for a successful HTTP DELETE.
type DeletedResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the response body for any failing HTTP status.
type ErrorResponse struct {
	// Error holds a well-known error code, or "error" if the
	// failure does not correspond to one.
	Error string `json:"error"`

	// Message holds a human-readable description of the failure.
	Message string `json:"message"`

	// Value holds an error-specific parameter, such as the
	// identifier of a missing object.
	Value string `json:"value,omitempty"`

	// Stack holds a goroutine stack trace if the error code is
	// "panic".
	Stack string `json:"stack,omitempty"`
}
