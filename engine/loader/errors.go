package loader

import (
	"errors"
	"fmt"
)

// ErrMalformedDescriptor is returned synchronously for descriptors that can never load:
// an empty source, the wrong kind for the method called, or a format no backend handles.
var ErrMalformedDescriptor = errors.New("malformed asset descriptor")

// ErrAssetTooLarge is the cause of a load whose source holds more bytes than the loader
// reads into memory.
var ErrAssetTooLarge = errors.New("asset too large")

// LoadError reports a model fetch or decode failure. It is delivered through the load's
// future, never returned synchronously.
type LoadError struct {
	Descriptor AssetDescriptor
	Cause      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Descriptor, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// EnvironmentLoadError reports an environment map fetch or decode failure.
type EnvironmentLoadError struct {
	Descriptor AssetDescriptor
	Cause      error
}

func (e *EnvironmentLoadError) Error() string {
	return fmt.Sprintf("load environment %s: %v", e.Descriptor, e.Cause)
}

func (e *EnvironmentLoadError) Unwrap() error {
	return e.Cause
}
