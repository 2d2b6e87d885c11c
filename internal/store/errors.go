package store

import "fmt"

// NoMatchingTemplateError is returned by Fetch when neither the exact key
// nor the any-language fallback is stored.
type NoMatchingTemplateError struct {
	Tool     string
	Platform string
	Language string
}

func (e *NoMatchingTemplateError) Error() string {
	return fmt.Sprintf("no %s-%s or %s-any template stored for %s",
		e.Platform, e.Language, e.Platform, e.Tool)
}
