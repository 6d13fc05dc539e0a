package models

import (
	"fmt"
	"strings"
)

// Direction is the sort direction of an [Ordering].
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Ordering is an optional (field, direction) pair applied to a select.
// The zero value means "no ordering".
type Ordering struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// OrderBy is a shorthand for an ascending or descending [Ordering] on field.
func OrderBy(field string, dir Direction) *Ordering {
	return &Ordering{Field: field, Direction: dir}
}

// IsZero reports whether no ordering was requested.
func (o *Ordering) IsZero() bool {
	return o == nil || o.Field == ""
}

// IsDescending reports whether the ordering is descending. Anything other than
// "desc" is treated as ascending.
func (o *Ordering) IsDescending() bool {
	return o != nil && strings.EqualFold(string(o.Direction), string(Descending))
}

// String renders the ordering in "field.asc" form, the way it is sent to the
// REST gateway.
func (o *Ordering) String() string {
	if o.IsZero() {
		return ""
	}
	dir := Ascending
	if o.IsDescending() {
		dir = Descending
	}
	return fmt.Sprintf("%s.%s", o.Field, dir)
}
