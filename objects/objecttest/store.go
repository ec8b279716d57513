// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package objecttest

import (
	"errors"
	"time"

	"github.com/diffeo/go-objects/objects"
)

// TestCreateAndGet validates the basic create/fetch path: the record
// comes back with its name and payload, and both timestamps are the
// same instant.
func (s *Suite) TestCreateAndGet() {
	created := s.MustInsert("Widget", objects.DataDict{"price": 9.99})
	s.NotEmpty(created.ID)
	s.Equal("Widget", created.Name)
	s.True(created.UpdatedAt.Equal(created.CreatedAt))

	fetched, err := s.Store.Get(created.ID)
	if s.NoError(err) {
		s.Equal(created.ID, fetched.ID)
		s.Equal("Widget", fetched.Name)
		s.DataMatches(fetched, objects.DataDict{"price": 9.99})
		s.True(fetched.UpdatedAt.Equal(fetched.CreatedAt))
	}
}

// TestCreateWithoutData checks that the payload really is optional.
func (s *Suite) TestCreateWithoutData() {
	created := s.MustInsert("bare", nil)
	fetched, err := s.Store.Get(created.ID)
	if s.NoError(err) {
		s.Nil(fetched.Data)
	}
}

// TestCreateRequiresName checks that an empty name never creates a
// record.
func (s *Suite) TestCreateRequiresName() {
	_, err := s.Store.Insert("", nil)
	s.True(errors.Is(err, objects.ErrNoName))

	ids := s.ListIDs()
	s.Empty(ids)
}

// TestGetMissing checks the not-found path.
func (s *Suite) TestGetMissing() {
	_, err := s.Store.Get("12345678123456781234567812345678")
	var missing objects.ErrNoSuchObject
	s.True(errors.As(err, &missing))
}

// TestReplaceIsWholesale checks full-replacement semantics: whatever
// the replace request provides is the new complete value, and a
// request with no payload resets the stored payload to null.
func (s *Suite) TestReplaceIsWholesale() {
	created := s.MustInsert("Widget", objects.DataDict{"price": 9.99, "color": "red"})

	replaced, err := s.Store.Replace(created.ID, "Gadget", nil)
	if s.NoError(err) {
		s.Equal(created.ID, replaced.ID)
		s.Equal("Gadget", replaced.Name)
		s.Nil(replaced.Data)
	}

	fetched, err := s.Store.Get(created.ID)
	if s.NoError(err) {
		s.Equal("Gadget", fetched.Name)
		s.Nil(fetched.Data)
	}
}

// TestReplaceRequiresName mirrors the create-side name requirement.
func (s *Suite) TestReplaceRequiresName() {
	created := s.MustInsert("Widget", nil)
	_, err := s.Store.Replace(created.ID, "", nil)
	s.True(errors.Is(err, objects.ErrNoName))

	fetched, err := s.Store.Get(created.ID)
	if s.NoError(err) {
		s.Equal("Widget", fetched.Name)
	}
}

// TestReplaceMissing checks that replacing a nonexistent record is
// not an upsert.
func (s *Suite) TestReplaceMissing() {
	_, err := s.Store.Replace("12345678123456781234567812345678", "Gadget", nil)
	var missing objects.ErrNoSuchObject
	s.True(errors.As(err, &missing))
}

// TestMergeNameOnly checks partial-update semantics: a patch that
// only supplies a name leaves the payload untouched.
func (s *Suite) TestMergeNameOnly() {
	created := s.MustInsert("Widget", objects.DataDict{"price": 9.99})

	merged, err := s.Store.Merge(created.ID, objects.Patch{Name: stringPtr("Gizmo")})
	if s.NoError(err) {
		s.Equal("Gizmo", merged.Name)
		s.DataMatches(merged, objects.DataDict{"price": 9.99})
	}

	fetched, err := s.Store.Get(created.ID)
	if s.NoError(err) {
		s.Equal("Gizmo", fetched.Name)
		s.DataMatches(fetched, objects.DataDict{"price": 9.99})
	}
}

// TestMergeDataOnly checks that a patch that only supplies a payload
// replaces the payload as a whole and leaves the name alone.
func (s *Suite) TestMergeDataOnly() {
	created := s.MustInsert("Widget", objects.DataDict{"price": 9.99, "color": "red"})

	merged, err := s.Store.Merge(created.ID, objects.Patch{
		Data: dataPtr(objects.DataDict{"price": 19.99}),
	})
	if s.NoError(err) {
		s.Equal("Widget", merged.Name)
		// The payload is replaced field-for-field, not deep
		// merged; "color" is gone.
		s.DataMatches(merged, objects.DataDict{"price": 19.99})
	}
}

// TestMergeClearsData checks that an explicit null payload in a patch
// clears the stored payload, which is different from not supplying a
// payload at all.
func (s *Suite) TestMergeClearsData() {
	created := s.MustInsert("Widget", objects.DataDict{"price": 9.99})

	merged, err := s.Store.Merge(created.ID, objects.Patch{Data: dataPtr(nil)})
	if s.NoError(err) {
		s.Equal("Widget", merged.Name)
		s.Nil(merged.Data)
	}

	fetched, err := s.Store.Get(created.ID)
	if s.NoError(err) {
		s.Nil(fetched.Data)
	}
}

// TestMergeEmptyPatch checks that a patch with nothing in it is
// rejected and the record is unchanged, including its timestamps.
func (s *Suite) TestMergeEmptyPatch() {
	created := s.MustInsert("Widget", objects.DataDict{"price": 9.99})

	s.Clock.Add(time.Minute)
	_, err := s.Store.Merge(created.ID, objects.Patch{})
	s.True(errors.Is(err, objects.ErrEmptyPatch))

	fetched, err := s.Store.Get(created.ID)
	if s.NoError(err) {
		s.Equal("Widget", fetched.Name)
		s.DataMatches(fetched, objects.DataDict{"price": 9.99})
		s.True(fetched.UpdatedAt.Equal(created.UpdatedAt))
	}
}

// TestMergeEmptyName checks that a patch cannot blank out a record's
// name: records always have a non-empty name, on every path that can
// set one.
func (s *Suite) TestMergeEmptyName() {
	created := s.MustInsert("Widget", objects.DataDict{"price": 9.99})

	s.Clock.Add(time.Minute)
	_, err := s.Store.Merge(created.ID, objects.Patch{Name: stringPtr("")})
	s.True(errors.Is(err, objects.ErrNoName))

	fetched, err := s.Store.Get(created.ID)
	if s.NoError(err) {
		s.Equal("Widget", fetched.Name)
		s.True(fetched.UpdatedAt.Equal(created.UpdatedAt))
	}
}

// TestMergeMissing checks the not-found path for partial updates.
func (s *Suite) TestMergeMissing() {
	_, err := s.Store.Merge("12345678123456781234567812345678", objects.Patch{Name: stringPtr("x")})
	var missing objects.ErrNoSuchObject
	s.True(errors.As(err, &missing))
}

// TestDeleteTwice checks that deletion is irreversible and not
// idempotent-successful: the second delete fails.
func (s *Suite) TestDeleteTwice() {
	created := s.MustInsert("doomed", nil)

	s.NoError(s.Store.Delete(created.ID))

	_, err := s.Store.Get(created.ID)
	var missing objects.ErrNoSuchObject
	s.True(errors.As(err, &missing))

	err = s.Store.Delete(created.ID)
	s.True(errors.As(err, &missing))
}

// TestListOrder checks that List returns records in insertion order,
// minus deletions, and that the order is stable across calls.
func (s *Suite) TestListOrder() {
	a := s.MustInsert("a", nil)
	b := s.MustInsert("b", nil)
	c := s.MustInsert("c", nil)

	s.Equal([]string{a.ID, b.ID, c.ID}, s.ListIDs())

	s.NoError(s.Store.Delete(b.ID))

	s.Equal([]string{a.ID, c.ID}, s.ListIDs())
	s.Equal([]string{a.ID, c.ID}, s.ListIDs())
}

// TestEmptyID checks that an empty identifier is invalid input, not a
// reference to a missing record.
func (s *Suite) TestEmptyID() {
	_, err := s.Store.Get("")
	s.True(errors.Is(err, objects.ErrNoID))

	_, err = s.Store.Replace("", "name", nil)
	s.True(errors.Is(err, objects.ErrNoID))

	_, err = s.Store.Merge("", objects.Patch{Name: stringPtr("name")})
	s.True(errors.Is(err, objects.ErrNoID))

	err = s.Store.Delete("")
	s.True(errors.Is(err, objects.ErrNoID))
}

// TestTimestamps checks that mutations refresh UpdatedAt but never
// CreatedAt, and that UpdatedAt never precedes CreatedAt.
func (s *Suite) TestTimestamps() {
	created := s.MustInsert("Widget", nil)

	s.Clock.Add(time.Minute)
	merged, err := s.Store.Merge(created.ID, objects.Patch{Name: stringPtr("Gizmo")})
	if s.NoError(err) {
		s.True(merged.CreatedAt.Equal(created.CreatedAt))
		s.True(merged.UpdatedAt.After(merged.CreatedAt))
	}

	s.Clock.Add(time.Minute)
	replaced, err := s.Store.Replace(created.ID, "Doohickey", nil)
	if s.NoError(err) {
		s.True(replaced.CreatedAt.Equal(created.CreatedAt))
		s.True(replaced.UpdatedAt.After(merged.UpdatedAt))
	}
}

// TestCrudScenario walks the complete lifecycle of a single record
// through every operation in sequence.
func (s *Suite) TestCrudScenario() {
	created := s.MustInsert("Widget", objects.DataDict{"price": 9.99})
	s.NotEmpty(created.ID)

	patched, err := s.Store.Merge(created.ID, objects.Patch{
		Data: dataPtr(objects.DataDict{"price": 19.99}),
	})
	if s.NoError(err) {
		s.Equal("Widget", patched.Name)
		s.DataMatches(patched, objects.DataDict{"price": 19.99})
	}

	replaced, err := s.Store.Replace(created.ID, "Gadget", nil)
	if s.NoError(err) {
		s.Equal("Gadget", replaced.Name)
		s.Nil(replaced.Data)
	}

	s.NoError(s.Store.Delete(created.ID))

	_, err = s.Store.Get(created.ID)
	var missing objects.ErrNoSuchObject
	s.True(errors.As(err, &missing))
}
