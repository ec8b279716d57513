// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package cache provides identifier-based caching over an objects
// Store.  The cache wraps some other store, typically a remote or
// database-backed one.  Get returns a cached record when one is
// available; mutations pass through and then update the cache with
// the record the underlying store reported back.
//
// Caveats
//
// List always passes through to the underlying store, since only that
// store knows the full collection and its order.
//
// The cache only observes mutations made through it.  If another
// client shares the same backing store, cached records can be stale
// until they are evicted or overwritten.  Deleting a record through
// another client is the worst case: a cached Get will keep succeeding
// until the entry ages out.
package cache

import (
	"github.com/diffeo/go-objects/objects"
)

// cacheSize is the fixed capacity of the record cache.
const cacheSize = 32

type cachingStore struct {
	store   objects.Store
	records *lru
}

// New creates a new caching store, wrapping some other store.
func New(store objects.Store) objects.Store {
	return &cachingStore{
		store:   store,
		records: newLRU(cacheSize),
	}
}

// detach copies a record's payload so that the cache's copy and the
// caller's copy cannot affect each other.
func detach(record objects.Record) objects.Record {
	record.Data = objects.CopyData(record.Data)
	return record
}

func (c *cachingStore) Insert(name string, data objects.DataDict) (objects.Record, error) {
	record, err := c.store.Insert(name, data)
	if err != nil {
		return objects.Record{}, err
	}
	c.records.Put(detach(record))
	return record, nil
}

func (c *cachingStore) Get(id string) (objects.Record, error) {
	if id == "" {
		return objects.Record{}, objects.ErrNoID
	}
	record, err := c.records.Get(id, c.store.Get)
	if err != nil {
		return objects.Record{}, err
	}
	return detach(record), nil
}

func (c *cachingStore) List() ([]objects.Record, error) {
	return c.store.List()
}

func (c *cachingStore) Replace(id, name string, data objects.DataDict) (objects.Record, error) {
	record, err := c.store.Replace(id, name, data)
	if err != nil {
		return objects.Record{}, err
	}
	c.records.Put(detach(record))
	return record, nil
}

func (c *cachingStore) Merge(id string, patch objects.Patch) (objects.Record, error) {
	record, err := c.store.Merge(id, patch)
	if err != nil {
		return objects.Record{}, err
	}
	c.records.Put(detach(record))
	return record, nil
}

func (c *cachingStore) Delete(id string) error {
	// Invalidate unconditionally; even a failed delete is a hint
	// that the cached entry may not match the store.
	c.records.Remove(id)
	return c.store.Delete(id)
}
