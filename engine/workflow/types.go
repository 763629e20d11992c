// Package workflow drives a workflow definition's state machine (spec
// §4.6): parsing each state's description into an action, executing it,
// and following the first transition whose condition holds.
package workflow

import (
	"strings"

	"github.com/swissarmyhammer/swissarmyhammer/engine/action"
	"github.com/swissarmyhammer/swissarmyhammer/engine/core"
)

// Status is the terminal or in-flight state of a Run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
	StatusAborted   Status = "aborted"
)

func (s Status) Terminal() bool {
	return s != StatusRunning
}

// Transition is an outgoing edge from a State. An empty or "always"
// Condition (case-insensitive) always holds; anything else is a CEL
// expression evaluated against the visible workflow context.
type Transition struct {
	To        string `yaml:"to"`
	Condition string `yaml:"condition,omitempty"`
}

func (t Transition) isAlways() bool {
	c := strings.ToLower(strings.TrimSpace(t.Condition))
	return c == "" || c == "always"
}

// State is one node of a Definition's state machine.
type State struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Terminal    bool         `yaml:"terminal,omitempty"`
	Transitions []Transition `yaml:"transitions,omitempty"`
}

// Definition is a declarative workflow: named states, one of them the
// start state.
type Definition struct {
	Name   string            `yaml:"name"`
	Start  string            `yaml:"start"`
	States map[string]*State `yaml:"states"`
}

// Run is one execution of a Definition, owning its own context (spec §5
// Shared mutable state: "owned by their run"). ID uniquely identifies this
// execution for logging and correlation across sub-workflow runs.
type Run struct {
	ID         string
	Definition *Definition
	Context    action.Context
	Current    string
	Status     Status
	History    []string
}

func newRun(def *Definition, ctx action.Context) *Run {
	return &Run{
		ID:         core.MustNewID().String(),
		Definition: def,
		Context:    ctx,
		Current:    def.Start,
		Status:     StatusRunning,
		History:    []string{def.Start},
	}
}
