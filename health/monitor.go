package health

import (
	"sync"
	"time"
)

// Monitor holds the latest status per component. It is safe for
// concurrent use.
type Monitor struct {
	mu       sync.RWMutex
	statuses map[string]Status
}

// NewMonitor creates an empty monitor
func NewMonitor() *Monitor {
	return &Monitor{
		statuses: make(map[string]Status),
	}
}

// Update records status under name. Since is kept from the previous status
// while the state does not change.
func (m *Monitor) Update(name string, status Status) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status.Component = name
	if prev, ok := m.statuses[name]; ok && prev.State == status.State {
		status.Since = prev.Since
	}
	if status.Since.IsZero() {
		status.Since = time.Now()
	}
	m.statuses[name] = status
}

// Set is shorthand for Update with a new status.
func (m *Monitor) Set(name string, state State, message string) {
	m.Update(name, NewStatus(name, state, message))
}

// Get returns the status recorded for name.
func (m *Monitor) Get(name string) (Status, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status, ok := m.statuses[name]
	return status, ok
}

// Remove stops tracking name.
func (m *Monitor) Remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.statuses, name)
}

// Aggregate returns the combined status of every tracked component.
func (m *Monitor) Aggregate(system string) Status {
	m.mu.RLock()
	subs := make([]Status, 0, len(m.statuses))
	for _, status := range m.statuses {
		subs = append(subs, status)
	}
	m.mu.RUnlock()

	return Aggregate(system, subs)
}
