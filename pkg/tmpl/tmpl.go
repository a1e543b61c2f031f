// Package tmpl provides template rendering for user-configurable text such
// as the shell prompt.
package tmpl

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// plural returns "<n> <word>" with an "s" appended to word unless n is 1.
func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

var funcs = template.FuncMap{
	"plural": plural,
	"upper":  strings.ToUpper,
}

// Render executes a Go template string with the given data.
// Returns an error if the template is invalid or references undefined keys.
//
// Available template functions:
//   - plural: plural N "word" renders "1 word" or "N words"
//   - upper: upper-case a string
func Render(tmpl string, data any) (string, error) {
	t, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}
