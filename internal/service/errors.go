package service

import "errors"

var (
	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	ErrNoSession          = errors.New("no session in context")
	ErrAccessDenied       = errors.New("collection is not available for this role")
	ErrUnknownCollection  = errors.New("unknown collection")
	ErrCollectionsClosed  = errors.New("collection service is closed")
	ErrNilSource          = errors.New("remote source is nil")
	ErrLeadNotFound       = errors.New("lead not found")
	ErrInvalidLeadPayload = errors.New("invalid lead payload")
)
