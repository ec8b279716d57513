// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package cache

import (
	"errors"
	"testing"

	"github.com/diffeo/go-objects/memstore"
	"github.com/diffeo/go-objects/objects"
	"github.com/diffeo/go-objects/objects/objecttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// countingStore wraps a store and counts calls to Get.
type countingStore struct {
	objects.Store
	Gets int
}

func (s *countingStore) Get(id string) (objects.Record, error) {
	s.Gets++
	return s.Store.Get(id)
}

func setupCounting(t *testing.T) (objects.Store, *countingStore, objects.Record) {
	backing := &countingStore{Store: memstore.New()}
	seeded, err := backing.Insert("Widget", objects.DataDict{"price": 9.99})
	require.NoError(t, err)
	return New(backing), backing, seeded
}

func TestGetCachesFetches(t *testing.T) {
	cached, backing, seeded := setupCounting(t)

	// The first Get goes to the backing store; the second is
	// served from cache.
	record, err := cached.Get(seeded.ID)
	if assert.NoError(t, err) {
		assert.Equal(t, "Widget", record.Name)
	}
	assert.Equal(t, 1, backing.Gets)

	_, err = cached.Get(seeded.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, backing.Gets)
}

func TestMutationPrimesCache(t *testing.T) {
	cached, backing, seeded := setupCounting(t)

	_, err := cached.Replace(seeded.ID, "Gadget", nil)
	require.NoError(t, err)

	record, err := cached.Get(seeded.ID)
	if assert.NoError(t, err) {
		assert.Equal(t, "Gadget", record.Name)
		assert.Nil(t, record.Data)
	}
	assert.Equal(t, 0, backing.Gets)
}

func TestDeleteInvalidates(t *testing.T) {
	cached, backing, seeded := setupCounting(t)

	_, err := cached.Get(seeded.ID)
	require.NoError(t, err)
	require.Equal(t, 1, backing.Gets)

	require.NoError(t, cached.Delete(seeded.ID))

	_, err = cached.Get(seeded.ID)
	var missing objects.ErrNoSuchObject
	assert.True(t, errors.As(err, &missing))
	assert.Equal(t, 2, backing.Gets)
}

func TestCachedRecordsDetached(t *testing.T) {
	cached, _, seeded := setupCounting(t)

	record, err := cached.Get(seeded.ID)
	require.NoError(t, err)
	record.Data["price"] = 19.99

	record, err = cached.Get(seeded.ID)
	if assert.NoError(t, err) {
		assert.EqualValues(t, 9.99, record.Data["price"])
	}
}

func TestEviction(t *testing.T) {
	backing := &countingStore{Store: memstore.New()}
	cached := New(backing)

	// One more record than the cache holds
	ids := make([]string, cacheSize+1)
	for i := range ids {
		record, err := cached.Insert("bulk", nil)
		require.NoError(t, err)
		ids[i] = record.ID
	}

	// The first record was evicted, so fetching it hits the
	// backing store; the most recent one is still cached.
	backing.Gets = 0
	_, err := cached.Get(ids[0])
	assert.NoError(t, err)
	assert.Equal(t, 1, backing.Gets)

	_, err = cached.Get(ids[len(ids)-1])
	assert.NoError(t, err)
	assert.Equal(t, 1, backing.Gets)
}

// Suite runs the generic store tests over a cache wrapping the
// in-memory backend.
type Suite struct {
	objecttest.Suite
}

// SetupSuite does global setup for the test suite.
func (s *Suite) SetupSuite() {
	s.Suite.SetupSuite()
	s.Store = New(memstore.NewWithClock(s.Clock))
}

// TestStore runs the generic store tests.
func TestStore(t *testing.T) {
	suite.Run(t, &Suite{})
}
