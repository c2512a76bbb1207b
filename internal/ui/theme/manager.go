package theme

import (
	"slices"
	"sync"
)

var registry = &manager{themes: make(map[string]Theme)}

type manager struct {
	mu      sync.RWMutex
	themes  map[string]Theme
	current string
}

// Register adds t under t.Name. The first registered theme becomes current.
func Register(t Theme) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.themes[t.Name] = t
	if registry.current == "" {
		registry.current = t.Name
	}
}

// Set switches to the named theme and reports whether it exists.
func Set(name string) bool {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, ok := registry.themes[name]; !ok {
		return false
	}
	registry.current = name
	return true
}

// Current returns the active theme.
func Current() Theme {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.themes[registry.current]
}

// CurrentName returns the name of the active theme.
func CurrentName() string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.current
}

// Available returns the registered theme names in sorted order.
func Available() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.namesLocked()
}

func (m *manager) namesLocked() []string {
	names := make([]string, 0, len(m.themes))
	for name := range m.themes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Cycle switches to the next theme in sorted order and returns its name.
func Cycle() string {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	names := registry.namesLocked()
	if len(names) == 0 {
		return ""
	}
	idx := slices.Index(names, registry.current)
	registry.current = names[(idx+1)%len(names)]
	return registry.current
}
