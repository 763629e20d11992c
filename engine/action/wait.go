package action

import (
	"bufio"
	"context"
	"io"
	"time"
)

// WaitAction pauses the workflow either for a fixed duration or for a single
// line of user input (spec §4.4 WaitAction).
type WaitAction struct {
	Duration time.Duration
	UserWait bool
	Message  string

	Stdin io.Reader
}

func NewDurationWaitAction(d time.Duration) *WaitAction {
	return &WaitAction{Duration: d}
}

func NewUserInputWaitAction(stdin io.Reader) *WaitAction {
	return &WaitAction{UserWait: true, Stdin: stdin}
}

func (a *WaitAction) WithMessage(message string) *WaitAction {
	a.Message = message
	return a
}

func (a *WaitAction) Description() string {
	if a.UserWait {
		return "Wait for user input"
	}
	return "Wait for " + a.Duration.String()
}
func (a *WaitAction) ActionType() string { return "wait" }

// Execute sleeps for Duration, or blocks reading one line from Stdin when
// UserWait is set; there is no timeout on the user-input form.
func (a *WaitAction) Execute(ctx context.Context, wfCtx Context) (any, error) {
	if a.UserWait {
		reader := bufio.NewReader(a.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, &IOError{Op: "read user input", Err: err}
		}
		wfCtx[lastActionResultKey] = true
		return line, nil
	}

	select {
	case <-time.After(a.Duration):
	case <-ctx.Done():
		return nil, &ExecutionError{Detail: "wait cancelled: " + ctx.Err().Error()}
	}
	wfCtx[lastActionResultKey] = true
	return nil, nil
}
