package tnetstring

import (
	"reflect"
	"sync"
)

var (
	registry   = make(map[reflect.Type]any)
	registryMu sync.RWMutex
)

// Use returns a cached processor for T or builds a new one.
// Options only apply when the processor is first built.
func Use[T any](opts ...Option) (*Processor[T], error) {
	typ := reflect.TypeFor[T]()

	// Fast path: read-lock cache check
	registryMu.RLock()
	if cached, ok := registry[typ]; ok {
		registryMu.RUnlock()
		return cached.(*Processor[T]), nil
	}
	registryMu.RUnlock()

	registryMu.Lock()
	defer registryMu.Unlock()

	if cached, ok := registry[typ]; ok {
		return cached.(*Processor[T]), nil
	}

	processor, err := NewProcessor[T](opts...)
	if err != nil {
		return nil, err
	}

	registry[typ] = processor
	return processor, nil
}

// Reset clears the processor registry.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[reflect.Type]any)
}
