package kernel

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCollaborator is returned by New when a required subsystem is nil.
	ErrMissingCollaborator = errors.New("kernel: missing collaborator")
	// ErrAlreadyInitialized is returned by a second call to Init.
	ErrAlreadyInitialized = errors.New("kernel: already initialized")
	// ErrNotInitialized is returned by Run before a successful Init.
	ErrNotInitialized = errors.New("kernel: not initialized")
	// ErrUnknownMode is returned by ParseMode.
	ErrUnknownMode = errors.New("kernel: unknown mode")
)

// BootError reports the init step that failed. Boot does not continue past
// it and the kernel never retries; the platform is expected to halt or reset.
type BootError struct {
	Step string
	Err  error
}

func (e *BootError) Error() string {
	return fmt.Sprintf("boot: %s init failed: %v", e.Step, e.Err)
}

func (e *BootError) Unwrap() error { return e.Err }
