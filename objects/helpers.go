// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package objects

// CopyData produces a deep copy of a data dictionary.  Stores use
// this so that records they hand out are detached from their internal
// state; mutating a returned record's payload must not change the
// stored copy.  Copying a nil dictionary returns nil.
func CopyData(data DataDict) DataDict {
	if data == nil {
		return nil
	}
	result := make(DataDict, len(data))
	for k, v := range data {
		result[k] = copyValue(v)
	}
	return result
}

func copyValue(v interface{}) interface{} {
	switch value := v.(type) {
	case DataDict:
		return CopyData(value)
	case map[string]interface{}:
		return map[string]interface{}(CopyData(value))
	case map[interface{}]interface{}:
		result := make(map[interface{}]interface{}, len(value))
		for k, item := range value {
			result[k] = copyValue(item)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(value))
		for i, item := range value {
			result[i] = copyValue(item)
		}
		return result
	default:
		return v
	}
}
