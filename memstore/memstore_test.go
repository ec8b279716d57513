// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package memstore

import (
	"testing"

	"github.com/diffeo/go-objects/objects/objecttest"
	"github.com/stretchr/testify/suite"
)

// Suite is the generic store test suite bound to the in-memory
// backend.
type Suite struct {
	objecttest.Suite
}

// SetupSuite does global setup for the test suite.
func (s *Suite) SetupSuite() {
	s.Suite.SetupSuite()
	s.Store = NewWithClock(s.Clock)
}

// TestStore runs the generic store tests.
func TestStore(t *testing.T) {
	suite.Run(t, &Suite{})
}
