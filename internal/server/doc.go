// Package server manages the daemon's gRPC endpoint lifecycles: a
// bindable service with explicit Stopped/Running state and a client
// connector with explicit Disconnected/Connected state. Both wrappers
// stay agnostic of the concrete RPC schema; services are handed in as
// a ServiceSet and clients hand the raw connection to whoever speaks
// the protocol.
package server
