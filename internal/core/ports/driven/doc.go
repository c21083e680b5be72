// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports). Core services depend on these abstractions
// only; adapters implement them.
package driven
