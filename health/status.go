// Package health tracks the state of the lexrank transports and aggregates
// it for the HTTP /health endpoint.
package health

import (
	"regexp"
	"sort"
	"time"
)

// State is the health of one component.
type State string

// Health states, from best to worst.
const (
	StateHealthy   State = "healthy"
	StateDegraded  State = "degraded"
	StateUnhealthy State = "unhealthy"
)

var (
	urlRegex        = regexp.MustCompile(`(?:https?|nats|tls|wss?)://[^\s]+`)
	ipAddrRegex     = regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}(?::\d{1,5})?\b`)
	credentialRegex = regexp.MustCompile(`(?i)(password|token|secret|credential)[^a-zA-Z]*[:=][^,\s}]+`)
)

// Status is the health of a component or, for aggregates, of the whole
// process with one sub status per component.
type Status struct {
	Component   string    `json:"component"`
	State       State     `json:"status"`
	Message     string    `json:"message,omitempty"`
	Since       time.Time `json:"since"`
	SubStatuses []Status  `json:"sub_statuses,omitempty"`
}

// IsHealthy reports whether the state is healthy.
func (s Status) IsHealthy() bool {
	return s.State == StateHealthy
}

// IsUnhealthy reports whether the state is unhealthy.
func (s Status) IsUnhealthy() bool {
	return s.State == StateUnhealthy
}

// NewStatus creates a status that starts now.
func NewStatus(component string, state State, message string) Status {
	return Status{
		Component: component,
		State:     state,
		Message:   message,
		Since:     time.Now(),
	}
}

// FromError returns a healthy status for a nil err and an unhealthy one
// otherwise. Addresses and credentials are stripped from the message.
func FromError(component string, err error) Status {
	if err == nil {
		return NewStatus(component, StateHealthy, "")
	}
	return NewStatus(component, StateUnhealthy, sanitizeErrorMessage(err.Error()))
}

// sanitizeErrorMessage removes URLs, IP addresses and credential
// assignments so errors can be shown on an unauthenticated endpoint.
func sanitizeErrorMessage(msg string) string {
	msg = urlRegex.ReplaceAllString(msg, "[URL]")
	msg = ipAddrRegex.ReplaceAllString(msg, "[IP]")
	return credentialRegex.ReplaceAllString(msg, "[REDACTED]")
}

// Aggregate combines subs into one status named component. Any unhealthy
// sub makes the aggregate unhealthy, otherwise any degraded sub makes it
// degraded. Subs are sorted by component name.
func Aggregate(component string, subs []Status) Status {
	state := StateHealthy
	for _, sub := range subs {
		switch sub.State {
		case StateUnhealthy:
			state = StateUnhealthy
		case StateDegraded:
			if state == StateHealthy {
				state = StateDegraded
			}
		}
	}

	var message string
	switch state {
	case StateUnhealthy:
		message = "one or more components are unhealthy"
	case StateDegraded:
		message = "one or more components are degraded"
	}

	sorted := make([]Status, len(subs))
	copy(sorted, subs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Component < sorted[j].Component
	})

	agg := NewStatus(component, state, message)
	agg.SubStatuses = sorted
	return agg
}
