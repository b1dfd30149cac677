package render

import "fmt"

// TemplateError reports a template that failed to compile or render.
// Email is set when rendering for a specific contact.
type TemplateError struct {
	Path  string
	Email string
	Err   error
}

func (e *TemplateError) Error() string {
	if e.Email != "" {
		return fmt.Sprintf("Template error for %s: %v", e.Email, e.Err)
	}
	return fmt.Sprintf("Template error: %v", e.Err)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}
