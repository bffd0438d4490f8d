package treesink

import "github.com/pkg/errors"

var (
	// ErrSessionClosed is returned by Feed and Finish once a session has
	// reached a terminal state.
	ErrSessionClosed = errors.New("treesink: session already finished or closed")

	// ErrMissingCallback is returned when the callback set lacks an
	// operation the requested parse mode requires. The wrapped message
	// names the missing callback.
	ErrMissingCallback = errors.New("treesink: required callback is nil")
)
