// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks user-supplied entities before they reach the
// local store.
//
// Validators report field problems as [*ValidationError], keyed by the JSON
// field name so transports can return them to the caller unchanged.
package validators

import "context"

// Validator validates a value, optionally limiting the reported problems to
// the named JSON fields.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
