package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrMissingElement indicates a render target lacks a required sub-element
	ErrMissingElement = errors.New("render target is missing a required element")

	// ErrUnknownCategory indicates a vault category name could not be resolved
	ErrUnknownCategory = errors.New("unknown vault category")

	// ErrProfileNotFound indicates no counts are stored for the profile
	ErrProfileNotFound = errors.New("profile not found")

	// ErrStoreClosed indicates the vault store has already been closed
	ErrStoreClosed = errors.New("vault store is closed")
)
