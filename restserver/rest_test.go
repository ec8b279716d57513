// Wire-level tests for the objects REST API.
//
// Main tests are really by running the end-to-end path, using the
// objecttest tests driven from restclient.  This checks the parts of
// the HTTP contract the generic client hides: exact status codes,
// response bodies, and content-type handling.
//
// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/diffeo/go-objects/memstore"
	"github.com/diffeo/go-objects/objects"
	"github.com/diffeo/go-objects/restdata"
	"github.com/stretchr/testify/assert"
)

func testRouter() (objects.Store, http.Handler) {
	store := memstore.New()
	return store, NewRouter(store)
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeObject(t *testing.T, resp *httptest.ResponseRecorder) restdata.Object {
	var object restdata.Object
	err := restdata.Decode(resp.Header().Get("Content-Type"), resp.Body, &object)
	assert.NoError(t, err)
	return object
}

func TestRootDocument(t *testing.T) {
	_, router := testRouter()
	resp := doJSON(t, router, "GET", "/", "")
	assert.Equal(t, http.StatusOK, resp.Code)

	var root restdata.RootData
	err := restdata.Decode(resp.Header().Get("Content-Type"), resp.Body, &root)
	if assert.NoError(t, err) {
		assert.Equal(t, "/objects", root.ObjectsURL)
		assert.Equal(t, "/objects/{id}", root.ObjectURL)
	}
}

func TestCreateStatusAndLocation(t *testing.T) {
	_, router := testRouter()
	resp := doJSON(t, router, "POST", "/objects",
		`{"name": "Widget", "data": {"price": 9.99}}`)
	assert.Equal(t, http.StatusCreated, resp.Code)

	object := decodeObject(t, resp)
	assert.NotEmpty(t, object.ID)
	assert.Equal(t, "Widget", object.Name)
	assert.Equal(t, "/objects/"+object.ID, resp.Header().Get("Location"))
	if assert.NotNil(t, object.CreatedAt) && assert.NotNil(t, object.UpdatedAt) {
		assert.True(t, object.UpdatedAt.Equal(*object.CreatedAt))
	}
}

func TestCreateRequiresName(t *testing.T) {
	store, router := testRouter()
	resp := doJSON(t, router, "POST", "/objects", `{"name": ""}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var errResp restdata.ErrorResponse
	err := restdata.Decode(resp.Header().Get("Content-Type"), resp.Body, &errResp)
	if assert.NoError(t, err) {
		assert.Equal(t, "ErrNoName", errResp.Error)
	}

	// Nothing reached the store
	records, err := store.List()
	if assert.NoError(t, err) {
		assert.Empty(t, records)
	}
}

func TestPutResetsData(t *testing.T) {
	store, router := testRouter()
	created, err := store.Insert("Widget", objects.DataDict{"price": 9.99})
	if !assert.NoError(t, err) {
		return
	}

	// A PUT body with no "data" key replaces the whole object, so
	// the payload becomes null.
	resp := doJSON(t, router, "PUT", "/objects/"+created.ID, `{"name": "Gadget"}`)
	assert.Equal(t, http.StatusOK, resp.Code)

	object := decodeObject(t, resp)
	assert.Equal(t, "Gadget", object.Name)
	assert.Nil(t, object.Data)
}

func TestPatchKeepsData(t *testing.T) {
	store, router := testRouter()
	created, err := store.Insert("Widget", objects.DataDict{"price": 9.99})
	if !assert.NoError(t, err) {
		return
	}

	// The same body via PATCH only touches the supplied field.
	resp := doJSON(t, router, "PATCH", "/objects/"+created.ID, `{"name": "Gadget"}`)
	assert.Equal(t, http.StatusOK, resp.Code)

	object := decodeObject(t, resp)
	assert.Equal(t, "Gadget", object.Name)
	if assert.Contains(t, object.Data, "price") {
		assert.EqualValues(t, 9.99, object.Data["price"])
	}
}

func TestPatchExplicitNullClearsData(t *testing.T) {
	store, router := testRouter()
	created, err := store.Insert("Widget", objects.DataDict{"price": 9.99})
	if !assert.NoError(t, err) {
		return
	}

	resp := doJSON(t, router, "PATCH", "/objects/"+created.ID, `{"data": null}`)
	assert.Equal(t, http.StatusOK, resp.Code)

	object := decodeObject(t, resp)
	assert.Equal(t, "Widget", object.Name)
	assert.Nil(t, object.Data)
}

func TestPatchEmptyBody(t *testing.T) {
	store, router := testRouter()
	created, err := store.Insert("Widget", objects.DataDict{"price": 9.99})
	if !assert.NoError(t, err) {
		return
	}

	resp := doJSON(t, router, "PATCH", "/objects/"+created.ID, `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var errResp restdata.ErrorResponse
	err = restdata.Decode(resp.Header().Get("Content-Type"), resp.Body, &errResp)
	if assert.NoError(t, err) {
		assert.Equal(t, "ErrEmptyPatch", errResp.Error)
	}

	// The record is untouched
	fetched, err := store.Get(created.ID)
	if assert.NoError(t, err) {
		assert.Equal(t, "Widget", fetched.Name)
	}
}

func TestDeleteResponse(t *testing.T) {
	store, router := testRouter()
	created, err := store.Insert("doomed", nil)
	if !assert.NoError(t, err) {
		return
	}

	resp := doJSON(t, router, "DELETE", "/objects/"+created.ID, "")
	assert.Equal(t, http.StatusOK, resp.Code)

	var deleted restdata.DeletedResponse
	err = restdata.Decode(resp.Header().Get("Content-Type"), resp.Body, &deleted)
	if assert.NoError(t, err) {
		assert.Contains(t, deleted.Message, created.ID)
	}

	// The second delete is a 404, not a success
	resp = doJSON(t, router, "DELETE", "/objects/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestGetMissingObject(t *testing.T) {
	_, router := testRouter()
	resp := doJSON(t, router, "GET", "/objects/1234", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	var errResp restdata.ErrorResponse
	err := restdata.Decode(resp.Header().Get("Content-Type"), resp.Body, &errResp)
	if assert.NoError(t, err) {
		assert.Equal(t, "ErrNoSuchObject", errResp.Error)
		assert.Equal(t, "1234", errResp.Value)
		assert.True(t, errors.Is(errResp.ToError(), error(objects.ErrNoSuchObject{ID: "1234"})))
	}
}

func TestUnsupportedContentType(t *testing.T) {
	_, router := testRouter()
	req := httptest.NewRequest("POST", "/objects",
		strings.NewReader("name: Widget"))
	req.Header.Set("Content-Type", "application/x-yaml")
	req.Header.Set("Accept", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	_, router := testRouter()
	resp := doJSON(t, router, "POST", "/objects/1234", `{"name": "x"}`)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)
}

type failResponseWriter struct {
	Headers    http.Header
	StatusCode int
}

func (rw *failResponseWriter) Header() http.Header {
	if rw.Headers == nil {
		rw.Headers = make(http.Header)
	}
	return rw.Headers
}

func (rw *failResponseWriter) Write([]byte) (int, error) {
	return 0, errors.New("foo")
}

func (rw *failResponseWriter) WriteHeader(code int) {
	rw.StatusCode = code
}

// TestDoubleFault checks that, if there is an error serializing a JSON
// response, it doesn't actually panic the process.
func TestDoubleFault(t *testing.T) {
	store, router := testRouter()
	_, err := store.Insert("Widget", nil)
	if !assert.NoError(t, err) {
		return
	}

	req := &http.Request{
		Method: http.MethodGet,
		URL: &url.URL{
			Path: "/objects",
		},
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     http.Header{},
		Close:      true,
		Host:       "localhost",
	}
	resp := &failResponseWriter{}
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
