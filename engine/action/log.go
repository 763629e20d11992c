package action

import (
	"context"

	"github.com/swissarmyhammer/swissarmyhammer/pkg/logger"
)

// LogLevel selects the severity a LogAction reports at.
type LogLevel string

const (
	LogInfo    LogLevel = "info"
	LogWarning LogLevel = "warning"
	LogError   LogLevel = "error"
)

// LogAction renders its message against the workflow context and emits it
// at the chosen level (spec §4.4 LogAction).
type LogAction struct {
	Message string
	Level   LogLevel
}

func NewLogAction(message string, level LogLevel) *LogAction {
	return &LogAction{Message: message, Level: level}
}
func NewInfoLogAction(message string) *LogAction    { return NewLogAction(message, LogInfo) }
func NewWarningLogAction(message string) *LogAction { return NewLogAction(message, LogWarning) }
func NewErrorLogAction(message string) *LogAction   { return NewLogAction(message, LogError) }

func (a *LogAction) Description() string { return "Log: " + a.Message }
func (a *LogAction) ActionType() string  { return "log" }

func (a *LogAction) Execute(ctx context.Context, wfCtx Context) (any, error) {
	rendered := renderLiquid(ctx, a.Message, wfCtx)
	log := logger.FromContext(ctx)
	switch a.Level {
	case LogWarning:
		log.Warn(rendered)
	case LogError:
		log.Error(rendered)
	default:
		log.Info(rendered)
	}
	wfCtx[lastActionResultKey] = true
	return rendered, nil
}
