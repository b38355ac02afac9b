package server

import "errors"

var (
	// ErrEmptyAddress rejects construction without an endpoint.
	ErrEmptyAddress = errors.New("service address must not be empty")

	// ErrAlreadyRunning is returned by Start while the server is Running.
	ErrAlreadyRunning = errors.New("service is already running")

	// ErrNotStarted is returned by WaitForShutdown before the first Start.
	ErrNotStarted = errors.New("service was never started")

	// ErrAlreadyConnected is returned by Connect while a channel is live.
	ErrAlreadyConnected = errors.New("client is already connected")
)
