// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"io"
	"mime"
	"reflect"

	"github.com/ugorji/go/codec"
)

// JSONHandle returns a codec handle for the JSON representation of
// restdata objects.  Both sides of the wire use this so that decoded
// free-form payloads come back with the same concrete types.
func JSONHandle() *codec.JsonHandle {
	handle := &codec.JsonHandle{}
	// JSON object keys are always strings; without this, codec
	// decodes untyped objects as map[interface{}]interface{}.
	handle.MapType = reflect.TypeOf(map[string]interface{}(nil))
	return handle
}

// Decode tries to decode a restdata object from a reader, such as an
// HTTP request or response.  out must be a pointer type.
func Decode(contentType string, r io.Reader, out interface{}) error {
	if contentType == "" {
		// RFC 7231 section 3.1.1.5
		// We could also consider http.DetectContentType()
		contentType = "application/octet-stream"
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return err
	}

	// Promote to more specific types
	switch mediaType {
	case "text/json", "application/json", JSONMediaType, V1JSONMediaType:
		mediaType = V1JSONMediaType
	default:
		return ErrUnsupportedMediaType{Type: mediaType}
	}

	decoder := codec.NewDecoder(r, JSONHandle())
	return decoder.Decode(out)
}
