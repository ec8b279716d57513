// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package objecttest

import (
	"github.com/diffeo/go-objects/objects"
)

// ---------------------------------------------------------------------------
// Support functions for common tests

// DataMatches checks that a record's payload matches an expected
// value.
func (s *Suite) DataMatches(record objects.Record, expected objects.DataDict) {
	// assert.Equal is reflect.DeepEqual.
	// assert.EqualValues does a type conversion first if needed.
	// JSON round trips turn ints into floats, so a shallow
	// per-key EqualValues is what we actually want here.
	for key, value := range expected {
		if s.Contains(record.Data, key, "missing data[%q]", key) {
			s.EqualValues(value, record.Data[key], "data[%q]", key)
		}
	}
	for key := range record.Data {
		s.Contains(expected, key, "extra data[%q]", key)
	}
}

// ListIDs fetches the collection and returns just the record
// identifiers, in the order the store returned them.
func (s *Suite) ListIDs() []string {
	records, err := s.Store.List()
	if !s.NoError(err) {
		return nil
	}
	ids := make([]string, len(records))
	for i, record := range records {
		ids[i] = record.ID
	}
	return ids
}

// MustInsert creates a record and fails the test if it cannot.
func (s *Suite) MustInsert(name string, data objects.DataDict) objects.Record {
	record, err := s.Store.Insert(name, data)
	s.Require().NoError(err)
	return record
}

func stringPtr(s string) *string {
	return &s
}

func dataPtr(data objects.DataDict) *objects.DataDict {
	return &data
}
