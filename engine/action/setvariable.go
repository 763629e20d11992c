package action

import (
	"context"
	"encoding/json"
)

// SetVariableAction renders a literal value via ${} substitution, attempts
// to parse it as JSON, and falls back to the rendered string (spec §4.4
// SetVariableAction).
type SetVariableAction struct {
	VariableName string
	Value        string
}

func NewSetVariableAction(variableName, value string) *SetVariableAction {
	return &SetVariableAction{VariableName: variableName, Value: value}
}

func (a *SetVariableAction) Description() string { return "Set variable: " + a.VariableName }
func (a *SetVariableAction) ActionType() string  { return "set_variable" }

func (a *SetVariableAction) Execute(ctx context.Context, wfCtx Context) (any, error) {
	if err := ValidateArgumentKey(a.VariableName); err != nil {
		return nil, err
	}
	rendered := substituteString(a.Value, wfCtx)

	var parsed any
	if err := json.Unmarshal([]byte(rendered), &parsed); err == nil {
		wfCtx[a.VariableName] = parsed
		wfCtx[lastActionResultKey] = true
		return parsed, nil
	}

	wfCtx[a.VariableName] = rendered
	wfCtx[lastActionResultKey] = true
	return rendered, nil
}
