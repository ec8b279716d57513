// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package objects

import (
	"errors"
	"fmt"
)

// ErrNoName is returned from Store.Insert() and Store.Replace() if
// the provided name is empty.  The store is not modified.
var ErrNoName = errors.New("Object 'name' must not be empty")

// ErrNoID is returned from store operations that take an object
// identifier if the identifier is empty.  An empty identifier is
// invalid input, not a reference to a missing object.
var ErrNoID = errors.New("Object 'id' must not be empty")

// ErrEmptyPatch is returned from Store.Merge() if the patch supplies
// neither a name nor a payload.  There is nothing to update, and the
// record is unchanged.
var ErrEmptyPatch = errors.New("Nothing to update")

// ErrNoSuchObject is returned by Store.Get() and the mutating
// operations that want to look up a record, but cannot find it.
type ErrNoSuchObject struct {
	ID string
}

func (err ErrNoSuchObject) Error() string {
	return fmt.Sprintf("No such object %v", err.ID)
}
