package v1

import (
	"fmt"
	"sync"
)

// StepFunc represents the function to be executed in a scenario step. It
// runs on the session's dispatcher goroutine, so it may call the pacing
// operations directly.
type StepFunc func(d *Dispatcher)

// StepDef represents a defined step.
type StepDef struct {
	Name string
	Func StepFunc
}

// Scenario is an ordered script of named steps driven through a headless
// session. Steps fail by panicking with TestError (see Fail/Assert); the
// runner converts the panic into an error.
type Scenario struct {
	session *Session
	Steps   []StepDef
	mu      sync.Mutex
}

// NewScenario creates a scenario bound to a running session.
func NewScenario(s *Session) *Scenario {
	return &Scenario{
		session: s,
		Steps:   make([]StepDef, 0),
	}
}

// Step registers a new step.
func (sc *Scenario) Step(name string, fn StepFunc) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.Steps = append(sc.Steps, StepDef{Name: name, Func: fn})
}

// RunStepByName runs a specific step by name.
func (sc *Scenario) RunStepByName(name string) error {
	sc.mu.Lock()
	var fn StepFunc
	for _, s := range sc.Steps {
		if s.Name == name {
			fn = s.Func
			break
		}
	}
	sc.mu.Unlock()

	if fn == nil {
		return fmt.Errorf("step %s not found", name)
	}

	Log(LogTypeScenario, fmt.Sprintf("Running Step: %s", name), "")

	err := sc.session.Dispatch(func(d *Dispatcher) (err error) {
		// Steps fail by panic; convert to error here so the dispatcher
		// loop survives.
		defer func() {
			if r := recover(); r != nil {
				if te, ok := r.(TestError); ok {
					err = fmt.Errorf("failed: %s", te.Message)
				} else {
					err = fmt.Errorf("panic: %v", r)
				}
			}
		}()
		fn(d)
		return nil
	})

	if err != nil {
		Log(LogTypeScenario, fmt.Sprintf("Step %s FAILED", name), err.Error())
		return err
	}
	Log(LogTypeScenario, fmt.Sprintf("Step %s PASSED", name), "")
	return nil
}

// RunAll runs every registered step in order, stopping at the first
// failure.
func (sc *Scenario) RunAll() error {
	sc.mu.Lock()
	names := make([]string, 0, len(sc.Steps))
	for _, s := range sc.Steps {
		names = append(names, s.Name)
	}
	sc.mu.Unlock()

	for _, name := range names {
		if err := sc.RunStepByName(name); err != nil {
			return err
		}
	}
	return nil
}
