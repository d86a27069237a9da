package service

// Service is a long-lived subsystem beside the simulation loop: audio output, pose feed
//
// Lifecycle:
//  1. Construction with its configuration
//  2. Start() - acquire resources and launch goroutines
//  3. [runtime operation]
//  4. Stop() - halt goroutines and release resources
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must start before this one
	Dependencies() []string

	// Start begins service operation
	Start() error

	// Stop halts the service; must be idempotent
	Stop() error
}
