// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres_test

import (
	"testing"

	"github.com/diffeo/go-objects/objects/objecttest"
	"github.com/diffeo/go-objects/postgres"
	"github.com/stretchr/testify/suite"
)

// Suite is the generic store test suite bound to the PostgreSQL
// backend.
//
// This creates the backend using an empty string as the connection
// string, so when you run "go test" you must set environment
// variables as described in
// http://www.postgresql.org/docs/current/static/libpq-envars.html.
// If no database is reachable the suite is skipped.
type Suite struct {
	objecttest.Suite
}

// SetupSuite does global setup for the test suite.
func (s *Suite) SetupSuite() {
	s.Suite.SetupSuite()
	store, err := postgres.NewWithClock("", s.Clock)
	if err != nil {
		s.T().Skipf("cannot connect to PostgreSQL: %v", err)
	}
	s.Store = store
}

// TestStore runs the generic store tests.
func TestStore(t *testing.T) {
	suite.Run(t, &Suite{})
}
