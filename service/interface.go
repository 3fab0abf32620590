package service

// Service is the lifecycle contract of long-lived collaborators: audio
// backend, save store, observer feed
//
// Lifecycle:
//  1. Construction
//  2. Init(args...) - configuration from parsed flags/env
//  3. Start() - open resources, launch goroutines
//  4. [runtime operation]
//  5. Stop() - release resources, idempotent
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must Init before this one
	Dependencies() []string

	// Init configures the service from optional args
	Init(args ...any) error

	// Start begins service operation after all services initialised
	Start() error

	// Stop halts service operation, safe to call more than once
	Stop() error
}
