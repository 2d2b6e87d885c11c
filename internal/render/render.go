// Package render substitutes project placeholders in template bodies.
//
// Placeholders are written as {Name}, with optional spaces inside the
// braces. Only a fixed set of names is recognized:
//
//	{ProjectName}                      my-App
//	{ProjectName_DashesToUnderscores}  my_App
//	{ProjectName_Lowercase}            my-app
//
// A literal brace is written as \{ or \}. An unmatched } is kept as is.
// Anything else between braces, including {{ ... }} blocks, is an error:
// templates are plain text with substitutions, not a template language.
package render

import (
	"fmt"
	"strings"
)

// Placeholder names.
const (
	ProjectName                   = "ProjectName"
	ProjectNameDashesToUnderscore = "ProjectName_DashesToUnderscores"
	ProjectNameLowercase          = "ProjectName_Lowercase"
)

// Placeholders returns the recognized placeholder names.
func Placeholders() []string {
	return []string{ProjectName, ProjectNameDashesToUnderscore, ProjectNameLowercase}
}

// TemplateSyntaxError reports an invalid or unknown placeholder.
type TemplateSyntaxError struct {
	Token  string // the text between the braces, or "{" for an unterminated brace
	Line   int    // 1-based
	Column int    // 1-based, in bytes
	Reason string
}

func (e *TemplateSyntaxError) Error() string {
	return fmt.Sprintf("template line %d, column %d: %s: %q", e.Line, e.Column, e.Reason, e.Token)
}

// Render replaces every placeholder in body with its value for ctx.
// It is a pure function of its arguments.
func Render(body string, ctx Context) (string, error) {
	values := ctx.values()

	var out strings.Builder
	out.Grow(len(body))

	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body) && (body[i+1] == '{' || body[i+1] == '}'):
			out.WriteByte(body[i+1])
			i++

		case c == '{':
			end := strings.IndexByte(body[i+1:], '}')
			if end < 0 {
				return "", syntaxError(body, i, "{", "unterminated placeholder")
			}
			raw := body[i+1 : i+1+end]
			name := strings.TrimSpace(raw)

			switch {
			case strings.HasPrefix(raw, "{"):
				return "", syntaxError(body, i, raw, "template blocks are not supported")
			case strings.ContainsAny(raw, "{\n"):
				return "", syntaxError(body, i, "{", "unterminated placeholder")
			case name == "":
				return "", syntaxError(body, i, raw, "empty placeholder")
			}

			value, ok := values[name]
			if !ok {
				return "", syntaxError(body, i, name, "unknown placeholder")
			}
			out.WriteString(value)
			i += end + 1

		default:
			out.WriteByte(c)
		}
	}

	return out.String(), nil
}

// Check reports the first syntax error in body, if any.
func Check(body string) error {
	_, err := Render(body, Context{Name: "check"})
	return err
}

func syntaxError(body string, offset int, token, reason string) error {
	line := strings.Count(body[:offset], "\n") + 1
	col := offset - strings.LastIndexByte(body[:offset], '\n')
	return &TemplateSyntaxError{Token: token, Line: line, Column: col, Reason: reason}
}
