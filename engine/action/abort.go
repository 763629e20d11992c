package action

import (
	"context"
	"fmt"
)

// AbortAction halts workflow execution with a message. It never deletes or
// moves files; the caller is responsible for reacting to the returned
// ExecutionError (spec §4.4 AbortAction).
type AbortAction struct {
	Message string
}

func NewAbortAction(message string) *AbortAction { return &AbortAction{Message: message} }

func (a *AbortAction) Description() string { return "Abort: " + a.Message }
func (a *AbortAction) ActionType() string  { return "abort" }

func (a *AbortAction) Execute(ctx context.Context, wfCtx Context) (any, error) {
	rendered := substituteString(a.Message, wfCtx)
	wfCtx["abort"] = true
	wfCtx[abortRequestedKey] = true
	return nil, &ExecutionError{Detail: fmt.Sprintf("Workflow aborted: %s", rendered)}
}
