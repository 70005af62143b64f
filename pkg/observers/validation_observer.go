package observers

import (
	"fmt"
	"sync"

	"github.com/anggasct/statechart"
)

// ValidationObserver checks a running chart against expectations: states that
// should be visited and transitions that are allowed between named states.
type ValidationObserver struct {
	statechart.BaseObserver

	expectedStates     map[string]bool
	visitedStates      map[string]bool
	allowedTransitions map[string]map[string]bool
	violations         []string
	mutex              sync.RWMutex
}

// NewValidationObserver creates a new validation observer
func NewValidationObserver() *ValidationObserver {
	return &ValidationObserver{
		expectedStates:     make(map[string]bool),
		visitedStates:      make(map[string]bool),
		allowedTransitions: make(map[string]map[string]bool),
		violations:         make([]string, 0),
	}
}

// AddExpectedState adds a state, by name, that should be entered at some point
func (o *ValidationObserver) AddExpectedState(stateName string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.expectedStates[stateName] = true
}

// AddAllowedTransition allows from -> to. Once a source has an allowed
// transition, every other target from it is a violation.
func (o *ValidationObserver) AddAllowedTransition(from, to string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if _, exists := o.allowedTransitions[from]; !exists {
		o.allowedTransitions[from] = make(map[string]bool)
	}

	o.allowedTransitions[from][to] = true
}

// OnStateEnter marks the state as visited
func (o *ValidationObserver) OnStateEnter(chart *statechart.Statechart, state statechart.StateID) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.visitedStates[chart.Definition().StateName(state)] = true
}

// OnTransition validates transitions
func (o *ValidationObserver) OnTransition(chart *statechart.Statechart, t *statechart.Transition, event *statechart.Event) {
	def := chart.Definition()
	fromName := def.StateName(t.Source())
	toName := def.StateName(t.Target())

	o.mutex.Lock()
	defer o.mutex.Unlock()

	if allowed, exists := o.allowedTransitions[fromName]; exists {
		if !allowed[toName] {
			o.violations = append(o.violations, fmt.Sprintf(
				"invalid transition from '%s' to '%s' on %s", fromName, toName, event))
		}
	}
}

// OnError records errors as violations
func (o *ValidationObserver) OnError(chart *statechart.Statechart, err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.violations = append(o.violations, fmt.Sprintf("error occurred: %v", err))
}

// GetViolations returns all validation violations
func (o *ValidationObserver) GetViolations() []string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make([]string, len(o.violations))
	copy(result, o.violations)
	return result
}

// GetUnvisitedStates returns states that were expected but not visited
func (o *ValidationObserver) GetUnvisitedStates() []string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	var unvisited []string
	for state := range o.expectedStates {
		if !o.visitedStates[state] {
			unvisited = append(unvisited, state)
		}
	}

	return unvisited
}

// HasViolations returns whether any violations occurred
func (o *ValidationObserver) HasViolations() bool {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.violations) > 0
}

// Reset resets the validation state
func (o *ValidationObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.visitedStates = make(map[string]bool)
	o.violations = make([]string, 0)
}
