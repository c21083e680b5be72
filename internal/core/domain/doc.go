// Package domain contains the core business entities and errors for docchat.
// It has no dependencies on adapters or external libraries.
package domain
