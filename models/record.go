// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

// DefaultPrimaryKey is the field that identifies a record when a collection
// does not configure its own key.
const DefaultPrimaryKey = "id"

// Record is a single row of a collection: field name to scalar or nested value.
type Record map[string]any

// Snapshot is the full ordered set of records for a collection at a point in
// time. Order is the query order and is not guaranteed across refetches.
type Snapshot []Record

// Key returns the string form of the record's primary key field, or an empty
// string when the field is absent.
func (r Record) Key(field string) string {
	if field == "" {
		field = DefaultPrimaryKey
	}
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Clone returns a deep copy of r. Nested maps and slices are copied as well.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

// Clone returns a deep copy of s. A nil snapshot stays nil.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	for i, r := range s {
		out[i] = r.Clone()
	}
	return out
}

func cloneValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		return map[string]any(Record(value).Clone())
	case Record:
		return value.Clone()
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return value
	}
}
