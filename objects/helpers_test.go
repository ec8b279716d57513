// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package objects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCopyDataNil(t *testing.T) {
	assert.Nil(t, CopyData(nil))
}

func TestCopyDataDetaches(t *testing.T) {
	original := DataDict{
		"name":   "Widget",
		"nested": map[string]interface{}{"price": 9.99},
		"tags":   []interface{}{"a", "b"},
	}
	copied := CopyData(original)
	assert.Equal(t, original, copied)

	copied["name"] = "Gadget"
	copied["nested"].(map[string]interface{})["price"] = 19.99
	copied["tags"].([]interface{})[0] = "z"

	assert.Equal(t, "Widget", original["name"])
	assert.Equal(t, 9.99, original["nested"].(map[string]interface{})["price"])
	assert.Equal(t, "a", original["tags"].([]interface{})[0])
}

func TestPatchIsEmpty(t *testing.T) {
	assert.True(t, Patch{}.IsEmpty())

	name := "Widget"
	assert.False(t, Patch{Name: &name}.IsEmpty())

	var data DataDict
	assert.False(t, Patch{Data: &data}.IsEmpty())
}
