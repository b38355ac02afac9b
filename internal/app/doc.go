// Package app wires the daemon together: a signal-driven shutdown
// flag, the bounded frame loop that polls it, and the orchestration
// that starts the service, drives the loop and tears everything down
// in dependency order.
package app
