package synchronizer

import "errors"

var (
	ErrAlreadyStarted = errors.New("synchronizer already started")
	ErrStopped        = errors.New("synchronizer stopped")
	ErrNilSource      = errors.New("synchronizer source is nil")
	ErrEmptyTable     = errors.New("synchronizer table is empty")
)

// timeoutMessage is stored in the state when a fetch exceeds its deadline.
const timeoutMessage = "request timed out"
