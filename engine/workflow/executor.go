package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/swissarmyhammer/swissarmyhammer/engine/action"
	"github.com/swissarmyhammer/swissarmyhammer/pkg/logger"
)

// maxSteps bounds a single run's state transitions. Production workflows
// terminate in a handful of states; this is a backstop against a definition
// whose transitions cycle forever, not a modeled limit from the spec.
const maxSteps = 10_000

// Executor drives Definitions to completion: parsing each state's
// description into an action, executing it, and following the first
// transition whose condition holds (spec §4.6).
type Executor struct {
	Parser    *action.Parser
	Evaluator *CELEvaluator
	Store     Store
}

// NewExecutor builds an Executor. parser supplies the action dispatch table
// (spec §4.4); evaluator resolves CEL transition conditions; store resolves
// sub-workflows by name.
func NewExecutor(parser *action.Parser, evaluator *CELEvaluator, store Store) *Executor {
	return &Executor{Parser: parser, Evaluator: evaluator, Store: store}
}

// StartWorkflow constructs a fresh Run at def's start state with an empty
// context.
func (e *Executor) StartWorkflow(def *Definition) *Run {
	return newRun(def, action.Context{})
}

// WithWorkingDirAndAgent seeds a Run's context with the working directory
// (under "working_dir", available to ${working_dir} substitution) and the
// agent backend configuration PromptAction reads. It returns run for
// chaining.
func (e *Executor) WithWorkingDirAndAgent(run *Run, workingDir string, agentConfig map[string]any) *Run {
	if workingDir != "" {
		run.Context["working_dir"] = workingDir
	}
	if agentConfig != nil {
		run.Context[action.AgentConfigKey] = agentConfig
	}
	return run
}

// Run drives run to a terminal status, executing one state per iteration
// until a terminal state is reached, no transition condition holds, the
// run is cancelled, or an action reports a fatal error.
//
// An ExecutionError whose message begins "Workflow aborted:" (AbortAction)
// is never treated as an ordinary failure: it always surfaces as
// StatusAborted, distinct from StatusFailed (spec §4.6, §9).
func (e *Executor) Run(ctx context.Context, run *Run) error {
	log := logger.FromContext(ctx)

	for step := 0; ; step++ {
		if step >= maxSteps {
			run.Status = StatusFailed
			return &action.ExecutionError{Detail: fmt.Sprintf("workflow %q exceeded %d state transitions", run.Definition.Name, maxSteps)}
		}
		if err := ctx.Err(); err != nil {
			run.Status = StatusCancelled
			return err
		}

		state, ok := run.Definition.States[run.Current]
		if !ok {
			run.Status = StatusFailed
			return &action.ExecutionError{Detail: fmt.Sprintf("workflow %q has no state %q", run.Definition.Name, run.Current)}
		}

		if state.Terminal {
			run.Status = StatusCompleted
			return nil
		}

		act, err := e.Parser.Parse(ctx, state.Description, run.Context)
		if err != nil {
			run.Status = StatusFailed
			return err
		}
		if act != nil {
			log.Debug("executing action", "run", run.ID, "workflow", run.Definition.Name, "state", state.Name, "action", act.ActionType())
			if _, err := act.Execute(ctx, run.Context); err != nil {
				if isAbort(err) {
					run.Status = StatusAborted
				} else {
					run.Status = StatusFailed
				}
				return err
			}
		}

		next, err := e.nextState(ctx, state, run.Context)
		if err != nil {
			run.Status = StatusFailed
			return err
		}
		if next == "" {
			run.Status = StatusFailed
			return &action.ExecutionError{Detail: fmt.Sprintf("workflow %q state %q: no transition condition held", run.Definition.Name, state.Name)}
		}

		run.Current = next
		run.History = append(run.History, next)
	}
}

// nextState evaluates state's outgoing transitions in declaration order,
// first-match-wins. An "Always" (or empty) condition always matches;
// anything else is a CEL boolean expression evaluated against the visible
// workflow context.
func (e *Executor) nextState(ctx context.Context, state *State, wfCtx action.Context) (string, error) {
	data := map[string]any{"context": visibleState(wfCtx)}
	for _, t := range state.Transitions {
		if t.isAlways() {
			return t.To, nil
		}
		ok, err := e.Evaluator.Evaluate(ctx, t.Condition, data)
		if err != nil {
			return "", fmt.Errorf("workflow state %q transition condition %q: %w", state.Name, t.Condition, err)
		}
		if ok {
			return t.To, nil
		}
	}
	return "", nil
}

func visibleState(wfCtx action.Context) map[string]any {
	out := make(map[string]any, len(wfCtx))
	for k, v := range wfCtx {
		if strings.HasPrefix(k, "_") {
			continue
		}
		out[k] = v
	}
	return out
}

func isAbort(err error) bool {
	var execErr *action.ExecutionError
	if errors.As(err, &execErr) {
		return strings.HasPrefix(execErr.Detail, "Workflow aborted:")
	}
	return false
}

// RunToCompletion implements action.WorkflowRunner for SubWorkflowAction: it
// loads workflowName from e.Store, runs it to a terminal state seeded with
// childCtx, and returns the resulting context. Only a clean completion is
// considered success; an aborted, failed, or cancelled sub-workflow
// propagates its error to the caller.
func (e *Executor) RunToCompletion(ctx context.Context, workflowName string, childCtx action.Context) (action.Context, error) {
	def, err := e.Store.Load(ctx, workflowName)
	if err != nil {
		return nil, err
	}
	run := newRun(def, childCtx)
	if err := e.Run(ctx, run); err != nil {
		return nil, err
	}
	if run.Status != StatusCompleted {
		return nil, &action.ExecutionError{Detail: fmt.Sprintf("sub-workflow %q ended with status %q", workflowName, run.Status)}
	}
	return run.Context, nil
}
