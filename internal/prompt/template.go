package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	varRe    = regexp.MustCompile(`\{\{([a-zA-Z_][a-zA-Z0-9_]*)\}\}`)
	ifOpenRe = regexp.MustCompile(`\{\{#if\s+([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)
)

const ifClose = "{{/if}}"

// Vars is a map of variable names to values for template rendering.
type Vars map[string]string

// Render expands a template with the given variables. {{name}} is replaced
// with its value; a missing variable is an error naming every absent one.
// {{#if name}}...{{/if}} blocks survive only when the variable is non-empty.
func Render(tmpl string, vars Vars) (string, error) {
	result, err := resolveConditionals(tmpl, vars)
	if err != nil {
		return "", err
	}

	var missing []string
	expanded := varRe.ReplaceAllStringFunc(result, func(match string) string {
		name := varRe.FindStringSubmatch(match)[1]
		if val, ok := vars[name]; ok {
			return val
		}
		missing = append(missing, name)
		return match
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("missing template variables: %s", strings.Join(missing, ", "))
	}
	return expanded, nil
}

// resolveConditionals evaluates {{#if}} blocks, innermost first so nesting
// works. Each pass pairs the first closing tag with the nearest opening tag
// before it.
func resolveConditionals(tmpl string, vars Vars) (string, error) {
	for {
		closeIdx := strings.Index(tmpl, ifClose)
		if closeIdx == -1 {
			break
		}

		opens := ifOpenRe.FindAllStringSubmatchIndex(tmpl[:closeIdx], -1)
		if len(opens) == 0 {
			return "", fmt.Errorf("dangling %s without matching {{#if}}", ifClose)
		}
		open := opens[len(opens)-1]
		name := tmpl[open[2]:open[3]]
		body := tmpl[open[1]:closeIdx]

		keep := ""
		if vars[name] != "" {
			keep = body
		}
		tmpl = tmpl[:open[0]] + keep + tmpl[closeIdx+len(ifClose):]
	}

	if loc := ifOpenRe.FindString(tmpl); loc != "" {
		return "", fmt.Errorf("unclosed conditional block: %s", loc)
	}
	return tmpl, nil
}
