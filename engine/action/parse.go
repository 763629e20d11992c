package action

import (
	"context"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Parser renders a state description and dispatches it to one of the seven
// action parsers in spec §4.4's fixed priority order: Prompt, Wait, Log,
// SetVariable, SubWorkflow, Abort, Shell. First match wins; an unmatched
// description resolves to no action (nil, nil).
//
// The grammar these patterns implement is spec.md §6's "Action
// descriptions" table; action_parser.rs (the original's exact matcher) was
// not part of the retrieved reference material, so this is built from the
// spec's own grammar rather than ported line for line. See DESIGN.md.
type Parser struct {
	Library PromptLibrary
	Agent   AgentExecutor
	Sandbox ShellSandbox
	Loader  WorkflowLoader
	Runner  WorkflowRunner
	Stdin   io.Reader
}

var (
	promptPattern = regexp.MustCompile(
		`(?is)^execute\s+prompt\s+"([^"]+)"(?:\s+with\s+(.*?))?(?:\s+as\s+(\w+))?(\s+quiet)?\s*$`)
	// waitDurationPattern and waitUserPattern implement spec §6's grammar:
	// `Wait <N> seconds` | `Wait for <message>`.
	waitDurationPattern = regexp.MustCompile(`(?is)^wait\s+(\d+)\s*seconds?\s*$`)
	waitUserPattern     = regexp.MustCompile(`(?is)^wait\s+for\s+"?([^"]*?)"?\s*$`)
	logPattern          = regexp.MustCompile(`(?is)^log(?:\s+(warning|error))?\s+"([^"]*)"\s*$`)
	setVariablePattern  = regexp.MustCompile(`(?is)^set\s+([a-zA-Z0-9_-]+)\s*=\s*"([^"]*)"\s*$`)
	subWorkflowPattern  = regexp.MustCompile(
		`(?is)^run\s+workflow\s+"([^"]+)"(?:\s+with\s+(.*?))?(?:\s+as\s+(\w+))?\s*$`)
	abortPattern = regexp.MustCompile(`(?is)^abort\s+"([^"]*)"\s*$`)
	// shellPattern implements spec §6's `Shell "<cmd>" [with timeout=<s>
	// result="<var>"]`. Working directory and environment are not part of
	// the description grammar; a workflow state's own config supplies them
	// to the ShellAction builder directly (see DESIGN.md).
	shellPattern    = regexp.MustCompile(`(?is)^shell\s+"([^"]+)"(?:\s+with\s+(.*))?\s*$`)
	shellTimeoutArg = regexp.MustCompile(`timeout=(\d+)`)
	shellResultArg  = regexp.MustCompile(`result="([^"]*)"`)
	argPairPattern  = regexp.MustCompile(`(\w[\w-]*)\s*=\s*"([^"]*)"`)
)

// Parse renders description through the Liquid pre-parse expansion and
// dispatches it against the priority-ordered action parsers.
func (p *Parser) Parse(ctx context.Context, description string, wfCtx Context) (Action, error) {
	rendered := renderLiquid(ctx, description, wfCtx)
	rendered = strings.TrimSpace(rendered)
	if rendered == "" {
		return nil, nil
	}

	if m := promptPattern.FindStringSubmatch(rendered); m != nil {
		act := NewPromptAction(m[1], p.Library, p.Agent)
		for key, value := range parseArgPairs(m[2]) {
			if err := ValidateArgumentKey(key); err != nil {
				return nil, err
			}
			act.WithArgument(key, value)
		}
		if m[3] != "" {
			act.WithResultVariable(m[3])
		}
		if strings.TrimSpace(m[4]) != "" {
			act.Quiet = true
		}
		return act, nil
	}

	if m := waitDurationPattern.FindStringSubmatch(rendered); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, &ParseError{Detail: "invalid wait duration: " + m[1]}
		}
		return NewDurationWaitAction(time.Duration(n) * time.Second), nil
	}
	if m := waitUserPattern.FindStringSubmatch(rendered); m != nil {
		act := NewUserInputWaitAction(p.Stdin)
		if m[1] != "" {
			act.WithMessage(m[1])
		}
		return act, nil
	}

	if m := logPattern.FindStringSubmatch(rendered); m != nil {
		level := LogInfo
		switch strings.ToLower(m[1]) {
		case "warning":
			level = LogWarning
		case "error":
			level = LogError
		}
		return NewLogAction(m[2], level), nil
	}

	if m := setVariablePattern.FindStringSubmatch(rendered); m != nil {
		if err := ValidateArgumentKey(m[1]); err != nil {
			return nil, err
		}
		return NewSetVariableAction(m[1], m[2]), nil
	}

	if m := subWorkflowPattern.FindStringSubmatch(rendered); m != nil {
		act := NewSubWorkflowAction(m[1], p.Loader, p.Runner)
		for key, value := range parseArgPairs(m[2]) {
			if err := ValidateArgumentKey(key); err != nil {
				return nil, err
			}
			act.WithInput(key, value)
		}
		if m[3] != "" {
			act.WithResultVariable(m[3])
		}
		return act, nil
	}

	if m := abortPattern.FindStringSubmatch(rendered); m != nil {
		return NewAbortAction(m[1]), nil
	}

	if m := shellPattern.FindStringSubmatch(rendered); m != nil {
		act := NewShellAction(m[1], p.Sandbox)
		clause := m[2]
		if tm := shellTimeoutArg.FindStringSubmatch(clause); tm != nil {
			secs, err := strconv.Atoi(tm[1])
			if err != nil {
				return nil, &ParseError{Detail: "invalid shell timeout: " + tm[1]}
			}
			act.WithTimeout(time.Duration(secs) * time.Second)
		}
		if rm := shellResultArg.FindStringSubmatch(clause); rm != nil {
			act.WithResultVariable(rm[1])
		}
		return act, nil
	}

	return nil, nil
}

func parseArgPairs(s string) map[string]string {
	out := make(map[string]string)
	for _, m := range argPairPattern.FindAllStringSubmatch(s, -1) {
		out[m[1]] = m[2]
	}
	return out
}
