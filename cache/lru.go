// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package cache

import (
	"container/list"
	"sync"

	"github.com/diffeo/go-objects/objects"
)

// lru is a least-recently-used cache of records with a fixed
// capacity, keyed on record identifier.  The cache can be safely
// accessed from multiple goroutines.
type lru struct {
	size      int
	lock      sync.RWMutex
	evictList *list.List
	index     map[string]*list.Element
}

func newLRU(size int) *lru {
	return &lru{
		size:      size,
		evictList: list.New(),
		index:     make(map[string]*list.Element),
	}
}

// Get retrieves a record from the cache.  If it is not present, calls
// the fetch function, and if that succeeds, saves the record and
// returns it.  This returns an error only if the record is not
// present and the fetch function returns an error.
func (lru *lru) Get(id string, fetch func(string) (objects.Record, error)) (objects.Record, error) {
	// This sadly happens under a writer lock, since we need to move
	// the item to the back of the list if it is present
	lru.lock.Lock()
	defer lru.lock.Unlock()

	// Is it there?
	if element, present := lru.index[id]; present {
		lru.evictList.MoveToBack(element)
		return element.Value.(objects.Record), nil
	}

	// Otherwise call the fetch function
	record, err := fetch(id)
	if err != nil {
		return record, err
	}
	lru.add(record)
	return record, nil
}

// Put adds a record to the LRU cache, possibly evicting something.
func (lru *lru) Put(record objects.Record) {
	lru.lock.Lock()
	defer lru.lock.Unlock()

	// Are we just updating an existing record?
	if element, present := lru.index[record.ID]; present {
		element.Value = record
		lru.evictList.MoveToBack(element)
		return
	}

	// Otherwise add it
	lru.add(record)
}

// Remove takes a record out of the cache.  It does nothing if that
// identifier does not exist.
func (lru *lru) Remove(id string) {
	lru.lock.Lock()
	defer lru.lock.Unlock()

	if element, present := lru.index[id]; present {
		delete(lru.index, id)
		lru.evictList.Remove(element)
	}
}

// add is an internal helper, running under the write lock, that adds a
// new record to the cache.  The record is known to not already exist.
func (lru *lru) add(record objects.Record) {
	element := lru.evictList.PushBack(record)
	lru.index[record.ID] = element

	// If this caused the cache to go over size, start evicting
	for len(lru.index) > lru.size {
		head := lru.evictList.Front()
		evicted := head.Value.(objects.Record)
		delete(lru.index, evicted.ID)
		lru.evictList.Remove(head)
	}
}
