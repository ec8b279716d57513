// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/diffeo/go-objects/memstore"
	"github.com/diffeo/go-objects/objects"
	"github.com/diffeo/go-objects/objects/objecttest"
	"github.com/diffeo/go-objects/restclient"
	"github.com/diffeo/go-objects/restserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// Suite runs the generic store tests over an object stack where the
// REST client code talks to the REST server code, which points at an
// in-memory backend.
type Suite struct {
	objecttest.Suite
	server *httptest.Server
}

// SetupSuite does global setup for the test suite.
func (s *Suite) SetupSuite() {
	s.Suite.SetupSuite()
	backing := memstore.NewWithClock(s.Clock)
	router := restserver.NewRouter(backing)
	s.server = httptest.NewServer(router)
	store, err := restclient.New(s.server.URL)
	s.Require().NoError(err)
	s.Store = store
}

// TearDownSuite shuts down the test HTTP server.
func (s *Suite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
}

// TestStore runs the generic store tests.
func TestStore(t *testing.T) {
	suite.Run(t, &Suite{})
}

func TestEmptyURL(t *testing.T) {
	_, err := restclient.New("")
	if err == nil {
		t.Fatal("Expected error when given empty URL.")
	}
}

// TestUnreachableServer checks that a transport failure comes back as
// a plain error, not an ErrorHTTP.
func TestUnreachableServer(t *testing.T) {
	_, err := restclient.New("http://localhost:1/")
	if !assert.Error(t, err) {
		return
	}
	var httpErr restclient.ErrorHTTP
	assert.False(t, errors.As(err, &httpErr))
}

// TestErrorStatus checks that an application-level failure carries
// the HTTP status the server answered with and unwraps to the
// matching objects error.
func TestErrorStatus(t *testing.T) {
	backing := memstore.New()
	server := httptest.NewServer(restserver.NewRouter(backing))
	defer server.Close()

	store, err := restclient.New(server.URL)
	if !assert.NoError(t, err) {
		return
	}

	_, err = store.Get("1234")
	var httpErr restclient.ErrorHTTP
	if assert.True(t, errors.As(err, &httpErr)) {
		assert.Equal(t, 404, httpErr.Response.StatusCode)
	}
	var missing objects.ErrNoSuchObject
	if assert.True(t, errors.As(err, &missing)) {
		assert.Equal(t, "1234", missing.ID)
	}
}
