// Package validation holds the field checks applied to registry payloads
// before anything is written to the store. Every function is pure: the
// language vocabulary and the host allow list are passed in by the caller.
package validation
