// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package objects defines an abstract API to the objects playground
// store.
//
// The store holds a single flat collection of records.  Each record
// has a server-assigned immutable identifier, a required name, an
// optional free-form data dictionary, and a pair of server-managed
// timestamps.  Applications will know of specific implementations of
// this API, such as the memstore in-memory store, the postgres
// database-backed store, or the restclient HTTP client, and will get
// a Store from one of those.
package objects

import "time"

// DataDict is an arbitrary user-provided data dictionary.  A record's
// Data field holds one of these, or nil if the record has no payload.
// Values may be arbitrarily nested so long as they round-trip through
// JSON.  The store does not constrain its shape beyond that.
type DataDict map[string]interface{}

// Record is a single object in the collection.  Records are plain
// values; mutating one has no effect on the store.
type Record struct {
	// ID is the store-assigned unique identifier of this record.
	// It never changes, and is never reused even after the record
	// is deleted.
	ID string

	// Name is the required human-readable label of the record.
	// It is never empty on a record returned from a store.
	Name string

	// Data is the free-form payload, or nil if the record has
	// none.
	Data DataDict

	// CreatedAt is the time the record was inserted.  It never
	// changes.
	CreatedAt time.Time

	// UpdatedAt is the time of the most recent successful
	// mutation, including the initial insert.  It is always at
	// least CreatedAt.
	UpdatedAt time.Time
}

// Patch describes a partial update to a record.  Fields that are nil
// are left untouched; this is the difference between a Patch and a
// full replace.  Data points at a nil DataDict to clear the payload
// explicitly, which is distinct from not supplying Data at all.
type Patch struct {
	// Name, if non-nil, is the new name of the record.
	Name *string

	// Data, if non-nil, is the new payload of the record.  The
	// pointed-at value may itself be nil to clear the payload.
	Data *DataDict
}

// IsEmpty reports whether the patch supplies no fields at all.  Such
// a patch is rejected by Store.Merge.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Data == nil
}

// Store is the principal interface to the objects collection.
// Implementations provide a specific database backend, RPC system,
// or other way to hold the records.
//
// Individual calls are atomic with respect to each other: two
// concurrent mutations of the same record will apply in some order,
// last write winning.  There is no cross-record transaction and no
// optimistic concurrency control.
type Store interface {
	// Insert creates a new record with a fresh unique identifier.
	// name must be non-empty or ErrNoName is returned.  data may
	// be nil.  On success both timestamps of the returned record
	// are set to the same instant.
	Insert(name string, data DataDict) (Record, error)

	// Get retrieves a record by its identifier.  Returns an
	// instance of ErrNoSuchObject if no record has that
	// identifier, or ErrNoID if id is empty.
	Get(id string) (Record, error)

	// List returns every record in the collection, in insertion
	// order.  The order is stable across calls.  The slice may be
	// empty but the error is always nil for in-process stores;
	// remote stores can fail in transport.
	List() ([]Record, error)

	// Replace overwrites the name and payload of an existing
	// record wholesale.  Passing a nil data clears the payload;
	// there is no way to keep the old payload except to supply it
	// again.  Returns ErrNoName for an empty name, ErrNoID for an
	// empty id, or an instance of ErrNoSuchObject.
	Replace(id, name string, data DataDict) (Record, error)

	// Merge overwrites only the fields the patch supplies,
	// leaving absent fields at their previous values.  An empty
	// patch returns ErrEmptyPatch and the record is unchanged.
	// Returns ErrNoID for an empty id or an instance of
	// ErrNoSuchObject.
	Merge(id string, patch Patch) (Record, error)

	// Delete irreversibly removes a record.  A second delete of
	// the same identifier returns an instance of ErrNoSuchObject,
	// not success.  Returns ErrNoID for an empty id.
	Delete(id string) error
}
