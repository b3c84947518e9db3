package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// MaxContentLength caps a comment body, in characters.
const MaxContentLength = 65536

// ValidateNewComment checks the caller-supplied fields of a comment about to
// be created. It returns a *ValidationError if any rules fail, or nil if the
// request is valid. Parent resolution is the store's job; only shape is
// checked here. A reply may omit Target, which it inherits from its parent.
func ValidateNewComment(n *NewComment) error {
	var ve ValidationError

	if n.Parent == "" && strings.TrimSpace(n.Target) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "target", Message: "is required"})
	}
	if strings.TrimSpace(n.Author) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "author", Message: "is required"})
	}
	appendContentErrors(&ve, n.Content)

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateContent checks an amended comment body against the same rules
// applied at creation.
func ValidateContent(content string) error {
	var ve ValidationError
	appendContentErrors(&ve, content)
	if ve.HasErrors() {
		return &ve
	}
	return nil
}

func appendContentErrors(ve *ValidationError, content string) {
	if strings.TrimSpace(content) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "content", Message: "is required"})
	} else if len([]rune(content)) > MaxContentLength {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "content",
			Message: fmt.Sprintf("must be %d characters or fewer", MaxContentLength),
		})
	}
}
