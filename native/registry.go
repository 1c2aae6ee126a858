// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"sort"
	"sync"
)

// DisplayFactory opens a new display connection for a driver.
type DisplayFactory func() (Display, error)

// RegistryEntry is a registered driver.
type RegistryEntry struct {
	// Name is the unique identifier of the driver.
	Name string

	// Priority determines selection order (higher = preferred).
	//   - 100: GPU drivers
	//   - 10: pure software drivers
	Priority int

	Factory DisplayFactory

	// Available reports whether the driver can run on this system.
	Available func() bool
}

var globalRegistry = &Registry{}

// Registry maps driver names to display factories.
//
// Drivers register themselves from init:
//
//	func init() {
//	    native.Register("vulkan", 100, openDisplay, vulkanAvailable)
//	}
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates an empty registry. Most code uses the global
// registry through Register and Open.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*RegistryEntry)}
}

// Register adds a driver to the global registry. A nil available func means
// always available. Registering an existing name replaces the entry.
func Register(name string, priority int, factory DisplayFactory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a driver from the global registry.
func Unregister(name string) { globalRegistry.Unregister(name) }

// List returns all registered driver names, highest priority first.
func List() []string { return globalRegistry.List() }

// Available returns the names of available drivers, highest priority first.
func Available() []string { return globalRegistry.Available() }

// Get returns a copy of the named driver entry.
func Get(name string) (*RegistryEntry, bool) { return globalRegistry.Get(name) }

// Open opens a display on the named driver.
func Open(name string) (Display, error) { return globalRegistry.Open(name) }

// OpenDefault opens a display on the best available driver.
func OpenDefault() (Display, error) { return globalRegistry.OpenDefault() }

// Register adds a driver to this registry.
func (r *Registry) Register(name string, priority int, factory DisplayFactory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}
	if available == nil {
		available = func() bool { return true }
	}
	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a driver from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// List returns all registered driver names sorted by priority.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames(false)
}

// Available returns the names of available drivers sorted by priority.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames(true)
}

// Get returns a copy of the named entry.
func (r *Registry) Get(name string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	entryCopy := *entry
	return &entryCopy, true
}

// Open opens a display on the named driver.
func (r *Registry) Open(name string) (Display, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &DriverNotFoundError{Name: name}
	}
	if !entry.Available() {
		return nil, &DriverUnavailableError{Name: name}
	}
	d, err := entry.Factory()
	if err != nil {
		return nil, err
	}
	Logger().Info("native: display opened", "driver", name)
	return d, nil
}

// OpenDefault tries each available driver in priority order and returns the
// first display that opens.
func (r *Registry) OpenDefault() (Display, error) {
	r.mu.RLock()
	available := r.sortedNames(true)
	r.mu.RUnlock()

	var lastErr error
	for _, name := range available {
		d, err := r.Open(name)
		if err == nil {
			return d, nil
		}
		Logger().Warn("native: driver failed to open", "driver", name, "err", err)
		lastErr = err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoDriverAvailable
}

// sortedNames returns driver names by descending priority, then by name.
// Must be called with the lock held.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	if len(r.entries) == 0 {
		return nil
	}

	type entry struct {
		name     string
		priority int
	}
	entries := make([]entry, 0, len(r.entries))
	for name, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, entry{name: name, priority: e.Priority})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority > entries[j].priority
		}
		return entries[i].name < entries[j].name
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// DriverNotFoundError indicates a named driver is not registered.
type DriverNotFoundError struct {
	Name string
}

func (e *DriverNotFoundError) Error() string {
	return "native: driver not found: " + e.Name
}

// DriverUnavailableError indicates a driver is registered but cannot run.
type DriverUnavailableError struct {
	Name string
}

func (e *DriverUnavailableError) Error() string {
	return "native: driver unavailable: " + e.Name
}
