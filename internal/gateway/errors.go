package gateway

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("gateway unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrBadGateway          = errors.New("bad gateway")
	ErrInternalServerError = errors.New("internal server error")
	ErrUnavailable         = errors.New("store unavailable")
	ErrGatewayTimeout      = errors.New("store timed out")

	// PostgREST answers 406 when a single-object request matches zero or
	// several rows and 416 when the requested range is past the end.
	ErrNotAcceptable       = errors.New("not acceptable")
	ErrRangeNotSatisfiable = errors.New("range not satisfiable")

	ErrEmptyTable         = errors.New("table name is empty")
	ErrInvalidIdentifier  = errors.New("invalid identifier")
	ErrEmptyChannel       = errors.New("channel name is empty")
	ErrChannelInUse       = errors.New("channel is already subscribed")
	ErrNilHandler         = errors.New("change handler is nil")
	ErrJoinRejected       = errors.New("channel join rejected")
	ErrRealtimeClosed     = errors.New("realtime connection closed")
	ErrUnknownGatewayKind = errors.New("unknown gateway kind")
)
