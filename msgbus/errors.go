package msgbus

import "errors"

var (
	// ErrInvalidTraderID indicates a trader id not of the form NAME-TAG.
	ErrInvalidTraderID = errors.New("msgbus: invalid trader id")
	// ErrEndpointNotFound indicates no handler is registered for the endpoint.
	ErrEndpointNotFound = errors.New("msgbus: endpoint not registered")
	// ErrNoCallback indicates the handler only carries a host reference and
	// cannot be invoked from Go.
	ErrNoCallback = errors.New("msgbus: handler has no Go callback")
)
