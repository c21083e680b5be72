// Package driving provides interfaces for the application's entry
// points (primary/inbound ports). CLI and other driving adapters call
// the core through these.
package driving
