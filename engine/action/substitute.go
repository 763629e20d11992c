package action

import (
	"context"
	"strings"

	"github.com/swissarmyhammer/swissarmyhammer/pkg/logger"
	"github.com/swissarmyhammer/swissarmyhammer/pkg/tplengine"
)

// visibleContext drops internal ("_"-prefixed) keys, matching spec §4.4's
// "internal keys hidden from substitution" rule.
func visibleContext(wfCtx Context) map[string]any {
	out := make(map[string]any, len(wfCtx))
	for k, v := range wfCtx {
		if strings.HasPrefix(k, "_") {
			continue
		}
		out[k] = v
	}
	return out
}

// substituteString applies the ${name} interpolation mechanism.
func substituteString(value string, wfCtx Context) string {
	return tplengine.SubstituteVariables(value, tplengine.StringifyContext(wfCtx))
}

// substituteMap applies substituteString to every value in values.
func substituteMap(values map[string]string, wfCtx Context) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = substituteString(v, wfCtx)
	}
	return out
}

// renderLiquid applies the full {{ }} template mechanism against the
// visible workflow context. On render failure it logs a warning and falls
// back to the original body unrendered (spec §4.4 Variable substitution).
func renderLiquid(ctx context.Context, body string, wfCtx Context) string {
	if !tplengine.HasTemplate(body) {
		return body
	}
	engine := tplengine.NewEngine(tplengine.FormatText)
	rendered, err := engine.RenderString(body, visibleContext(wfCtx))
	if err != nil {
		logger.FromContext(ctx).Warn("template render failed, using original text", "error", err)
		return body
	}
	return rendered
}
