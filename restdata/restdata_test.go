// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"strings"
	"testing"

	"github.com/diffeo/go-objects/objects"
	"github.com/stretchr/testify/assert"
)

func TestPatchAbsentFields(t *testing.T) {
	patch, err := ObjectPatch{}.ToPatch()
	if assert.NoError(t, err) {
		assert.Nil(t, patch.Name)
		assert.Nil(t, patch.Data)
		assert.True(t, patch.IsEmpty())
	}
}

func TestPatchNameOnly(t *testing.T) {
	patch, err := ObjectPatch{"name": "Widget"}.ToPatch()
	if assert.NoError(t, err) {
		if assert.NotNil(t, patch.Name) {
			assert.Equal(t, "Widget", *patch.Name)
		}
		assert.Nil(t, patch.Data)
	}
}

func TestPatchDataNull(t *testing.T) {
	// An explicit null is carried through as a pointer to a nil
	// dictionary, which is not the same as an absent key.
	patch, err := ObjectPatch{"data": nil}.ToPatch()
	if assert.NoError(t, err) {
		assert.Nil(t, patch.Name)
		if assert.NotNil(t, patch.Data) {
			assert.Nil(t, *patch.Data)
		}
	}
}

func TestPatchDataObject(t *testing.T) {
	patch, err := ObjectPatch{
		"data": map[string]interface{}{"price": 9.99},
	}.ToPatch()
	if assert.NoError(t, err) {
		if assert.NotNil(t, patch.Data) {
			assert.EqualValues(t, 9.99, (*patch.Data)["price"])
		}
	}
}

func TestPatchBadTypes(t *testing.T) {
	_, err := ObjectPatch{"name": 42}.ToPatch()
	var badRequest ErrBadRequest
	assert.IsType(t, badRequest, err)

	_, err = ObjectPatch{"data": "not an object"}.ToPatch()
	assert.IsType(t, badRequest, err)

	_, err = ObjectPatch{"data": []interface{}{1, 2}}.ToPatch()
	assert.IsType(t, badRequest, err)
}

func TestPatchRoundTrip(t *testing.T) {
	name := "Widget"
	data := objects.DataDict{"price": 9.99}
	original := objects.Patch{Name: &name, Data: &data}

	recovered, err := FromPatch(original).ToPatch()
	if assert.NoError(t, err) {
		if assert.NotNil(t, recovered.Name) {
			assert.Equal(t, name, *recovered.Name)
		}
		if assert.NotNil(t, recovered.Data) {
			assert.EqualValues(t, 9.99, (*recovered.Data)["price"])
		}
	}
}

func TestPatchRoundTripClear(t *testing.T) {
	var data objects.DataDict
	original := objects.Patch{Data: &data}

	body := FromPatch(original)
	value, present := body["data"]
	assert.True(t, present)
	assert.Nil(t, value)

	recovered, err := body.ToPatch()
	if assert.NoError(t, err) {
		assert.Nil(t, recovered.Name)
		if assert.NotNil(t, recovered.Data) {
			assert.Nil(t, *recovered.Data)
		}
	}
}

func TestErrorResponseKnownErrors(t *testing.T) {
	for _, err := range []error{
		objects.ErrNoName,
		objects.ErrNoID,
		objects.ErrEmptyPatch,
	} {
		resp := ErrorResponse{Error: "error", Message: err.Error()}
		resp.FromError(err)
		assert.Equal(t, err, resp.ToError())
	}
}

func TestErrorResponseMissingObject(t *testing.T) {
	err := objects.ErrNoSuchObject{ID: "1234"}
	resp := ErrorResponse{Error: "error", Message: err.Error()}
	resp.FromError(err)
	assert.Equal(t, "ErrNoSuchObject", resp.Error)
	assert.Equal(t, "1234", resp.Value)
	assert.Equal(t, error(err), resp.ToError())
}

func TestErrorResponseUnwrapsStatus(t *testing.T) {
	// The status wrappers only choose the HTTP status; the body
	// reports the embedded error.
	err := ErrNotFound{Err: objects.ErrNoSuchObject{ID: "1234"}}
	resp := ErrorResponse{Error: "error", Message: err.Error()}
	resp.FromError(err)
	assert.Equal(t, "ErrNoSuchObject", resp.Error)
	assert.Equal(t, "1234", resp.Value)

	err2 := ErrBadRequest{Err: objects.ErrNoName}
	resp = ErrorResponse{Error: "error", Message: err2.Error()}
	resp.FromError(err2)
	assert.Equal(t, "ErrNoName", resp.Error)
}

func TestErrorResponseGenericError(t *testing.T) {
	resp := ErrorResponse{Error: "error", Message: "something broke"}
	err := resp.ToError()
	assert.EqualError(t, err, "something broke")
}

func TestDecodeMediaTypes(t *testing.T) {
	for _, contentType := range []string{
		"application/json",
		"text/json",
		"application/json; charset=utf-8",
		JSONMediaType,
		V1JSONMediaType,
	} {
		var object Object
		err := Decode(contentType, strings.NewReader(`{"name": "Widget"}`), &object)
		if assert.NoError(t, err, "content type %q", contentType) {
			assert.Equal(t, "Widget", object.Name)
		}
	}
}

func TestDecodeUnsupportedMediaType(t *testing.T) {
	var object Object
	err := Decode("application/x-yaml", strings.NewReader("name: x"), &object)
	var unsupported ErrUnsupportedMediaType
	if assert.IsType(t, unsupported, err) {
		assert.Equal(t, 415, err.(ErrUnsupportedMediaType).HTTPStatus())
	}
}

func TestDecodeUntypedMaps(t *testing.T) {
	// Free-form payloads must come back as string-keyed maps all
	// the way down, or they cannot round-trip through DataDict.
	var object Object
	err := Decode("application/json",
		strings.NewReader(`{"name": "Widget", "data": {"nested": {"deep": 1}}}`),
		&object)
	if assert.NoError(t, err) {
		nested, ok := object.Data["nested"].(map[string]interface{})
		if assert.True(t, ok) {
			assert.EqualValues(t, 1, nested["deep"])
		}
	}
}
