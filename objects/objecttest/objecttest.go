// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package objecttest provides generic functional tests for the
// objects Store interface.  A typical backend test module needs to
// wrap Suite to create its backend:
//
//	package mybackend
//
//	import (
//	        "testing"
//	        "github.com/diffeo/go-objects/objects/objecttest"
//	        "github.com/stretchr/testify/suite"
//	)
//
//	// Suite is the per-backend generic test suite.
//	type Suite struct {
//	        objecttest.Suite
//	}
//
//	// SetupSuite does global setup for the test suite.
//	func (s *Suite) SetupSuite() {
//	        s.Suite.SetupSuite()
//	        s.Store = NewWithClock(s.Clock)
//	}
//
//	// TestStore runs the generic store tests.
//	func TestStore(t *testing.T) {
//	        suite.Run(t, &Suite{})
//	}
package objecttest

import (
	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-objects/objects"
	"github.com/stretchr/testify/suite"
)

// Suite is the generic objects Store test suite.
type Suite struct {
	suite.Suite

	// Clock contains the alternate time source to be used in
	// tests.  It is pre-initialized to a mock clock.
	Clock *clock.Mock

	// Store contains the top-level interface to the backend under
	// test.  It is set by importing packages.
	Store objects.Store
}

// SetupSuite does one-time initialization for the test suite.
func (s *Suite) SetupSuite() {
	s.Clock = clock.NewMock()
}

// TearDownTest removes every record between tests, so that each test
// sees an empty collection.
func (s *Suite) TearDownTest() {
	records, err := s.Store.List()
	if s.NoError(err) {
		for _, record := range records {
			s.NoError(s.Store.Delete(record.ID))
		}
	}
}
