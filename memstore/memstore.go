// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package memstore provides an in-process, in-memory implementation
// of the objects Store.  There is no persistence; the collection is
// lost when the process exits.  The entire store is behind a single
// global semaphore to protect against concurrent updates; this can
// limit performance in the name of correctness.
//
// This is mostly intended as a simple reference implementation of
// the Store interface that can be used for testing, including
// in-process testing of higher-level components.
package memstore

import (
	"strings"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-objects/objects"
	"github.com/satori/go.uuid"
)

// New creates a new Store that operates purely in memory, using real
// wall-clock time for record timestamps.
func New() objects.Store {
	return NewWithClock(clock.New())
}

// NewWithClock creates a new in-memory Store with an explicit time
// source.  Most application code should call New(); this entry point
// is intended for tests that need to inject a mock time source.
func NewWithClock(clk clock.Clock) objects.Store {
	return &memStore{
		records: make(map[string]*memRecord),
		clock:   clk,
	}
}

// memRecord is the stored form of a single record.
type memRecord struct {
	record objects.Record
}

type memStore struct {
	records map[string]*memRecord

	// order holds record identifiers in insertion order; deleted
	// identifiers are removed.  List() iterates this.
	order []string

	clock clock.Clock
	sem   sync.Mutex
}

// newID generates a fresh record identifier.  Identifiers are random
// UUIDs rendered as 32 hex digits, so they are unique by construction
// and are never reused after deletion.
func newID() string {
	return strings.Replace(uuid.NewV4().String(), "-", "", -1)
}

func (store *memStore) Insert(name string, data objects.DataDict) (objects.Record, error) {
	if name == "" {
		return objects.Record{}, objects.ErrNoName
	}

	store.sem.Lock()
	defer store.sem.Unlock()

	now := store.clock.Now()
	record := objects.Record{
		ID:        newID(),
		Name:      name,
		Data:      objects.CopyData(data),
		CreatedAt: now,
		UpdatedAt: now,
	}
	store.records[record.ID] = &memRecord{record: record}
	store.order = append(store.order, record.ID)
	return store.export(record.ID), nil
}

func (store *memStore) Get(id string) (objects.Record, error) {
	if id == "" {
		return objects.Record{}, objects.ErrNoID
	}

	store.sem.Lock()
	defer store.sem.Unlock()

	if _, present := store.records[id]; !present {
		return objects.Record{}, objects.ErrNoSuchObject{ID: id}
	}
	return store.export(id), nil
}

func (store *memStore) List() ([]objects.Record, error) {
	store.sem.Lock()
	defer store.sem.Unlock()

	result := make([]objects.Record, 0, len(store.order))
	for _, id := range store.order {
		result = append(result, store.export(id))
	}
	return result, nil
}

func (store *memStore) Replace(id, name string, data objects.DataDict) (objects.Record, error) {
	if id == "" {
		return objects.Record{}, objects.ErrNoID
	}
	if name == "" {
		return objects.Record{}, objects.ErrNoName
	}

	store.sem.Lock()
	defer store.sem.Unlock()

	stored, present := store.records[id]
	if !present {
		return objects.Record{}, objects.ErrNoSuchObject{ID: id}
	}
	stored.record.Name = name
	stored.record.Data = objects.CopyData(data)
	stored.record.UpdatedAt = store.clock.Now()
	return store.export(id), nil
}

func (store *memStore) Merge(id string, patch objects.Patch) (objects.Record, error) {
	if id == "" {
		return objects.Record{}, objects.ErrNoID
	}
	if patch.IsEmpty() {
		return objects.Record{}, objects.ErrEmptyPatch
	}
	if patch.Name != nil && *patch.Name == "" {
		return objects.Record{}, objects.ErrNoName
	}

	store.sem.Lock()
	defer store.sem.Unlock()

	stored, present := store.records[id]
	if !present {
		return objects.Record{}, objects.ErrNoSuchObject{ID: id}
	}
	if patch.Name != nil {
		stored.record.Name = *patch.Name
	}
	if patch.Data != nil {
		stored.record.Data = objects.CopyData(*patch.Data)
	}
	stored.record.UpdatedAt = store.clock.Now()
	return store.export(id), nil
}

func (store *memStore) Delete(id string) error {
	if id == "" {
		return objects.ErrNoID
	}

	store.sem.Lock()
	defer store.sem.Unlock()

	if _, present := store.records[id]; !present {
		return objects.ErrNoSuchObject{ID: id}
	}
	delete(store.records, id)
	for i, ordered := range store.order {
		if ordered == id {
			store.order = append(store.order[:i], store.order[i+1:]...)
			break
		}
	}
	return nil
}

// export produces a detached copy of a stored record.  The caller
// must hold the store semaphore and the record must exist.
func (store *memStore) export(id string) objects.Record {
	record := store.records[id].record
	record.Data = objects.CopyData(record.Data)
	return record
}
