package preload

import (
	"bytes"
	"fmt"
	"maps"
	"text/template"
	"unicode"
)

// Render executes text as a text/template with params as data and returns the result.
// Parameters are reachable as {{ .name }} and, when name is a valid identifier that does not
// collide with a template builtin or helper function, as {{ name }}.
// Missing keys, parse errors and execution errors return ErrRender.
// Each call parses text afresh.
func Render(text string, params map[string]any) (string, error) {
	funcs := defaultFuncMap()
	for name, v := range params {
		if _, taken := funcs[name]; taken || builtinFuncs[name] || !isIdentifier(name) {
			continue
		}
		funcs[name] = paramFunc(v)
	}
	tpl, err := template.New("preload").Option("missingkey=error").Funcs(funcs).Parse(text)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}
	data := maps.Clone(params)
	if data == nil {
		data = make(map[string]any)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}
	return buf.String(), nil
}

// builtinFuncs are text/template's predefined functions. Parameters with these names
// stay reachable only as {{ .name }}.
var builtinFuncs = map[string]bool{
	"and": true, "call": true, "html": true, "index": true, "slice": true,
	"js": true, "len": true, "not": true, "or": true, "print": true,
	"printf": true, "println": true, "urlquery": true,
	"eq": true, "ge": true, "gt": true, "le": true, "lt": true, "ne": true,
}

func paramFunc(v any) func() any {
	return func() any { return v }
}

// isIdentifier mirrors text/template's rule for function names.
func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_':
		case i == 0 && !unicode.IsLetter(r):
			return false
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			return false
		}
	}
	return true
}
