package tplengine

import (
	"fmt"
	"regexp"
	"strings"
)

var variableRefPattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// SubstituteVariables replaces every ${name} reference in input with its
// string value from vars. A reference to a name absent from vars, or whose
// value is internal (key starts with "_"), passes through literally (spec
// §4.4 Variable substitution).
func SubstituteVariables(input string, vars map[string]string) string {
	return variableRefPattern.ReplaceAllStringFunc(input, func(match string) string {
		name := match[2 : len(match)-1]
		if strings.HasPrefix(name, "_") {
			return match
		}
		value, ok := vars[name]
		if !ok {
			return match
		}
		return value
	})
}

// StringifyContext renders a template-context value bag into string values
// suitable for SubstituteVariables, skipping internal ("_"-prefixed) keys.
func StringifyContext(context map[string]any) map[string]string {
	out := make(map[string]string, len(context))
	for k, v := range context {
		if strings.HasPrefix(k, "_") {
			continue
		}
		out[k] = stringify(v)
	}
	return out
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
