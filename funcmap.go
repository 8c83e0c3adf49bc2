package preload

import (
	"fmt"
	"reflect"
	"strings"
	"text/template"
	"unicode/utf8"
)

// defaultFuncMap returns the helper functions available to every preload script.
// Parameters registered by Render take precedence over these names.
func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"sql_literal":    sqlLiteral,
		"sql_ident":      sqlIdent,
		"default":        defaultValue,
		"truncate_chars": truncateChars,
	}
}

// sqlLiteral formats v as a single-quoted SQL string literal, doubling embedded quotes.
func sqlLiteral(v any) string {
	return "'" + strings.ReplaceAll(fmt.Sprint(v), "'", "''") + "'"
}

// sqlIdent formats v as a double-quoted SQL identifier, doubling embedded quotes.
func sqlIdent(v any) string {
	return `"` + strings.ReplaceAll(fmt.Sprint(v), `"`, `""`) + `"`
}

// defaultValue returns def when v is nil or the zero value of its type.
// Argument order follows pipeline use: {{ .schema | default "main" }}.
func defaultValue(def, v any) any {
	if v == nil {
		return def
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return v
	}
	if rv.IsZero() {
		return def
	}
	return v
}

// truncateChars truncates text to at most maxChars runes.
func truncateChars(text string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxChars])
}
