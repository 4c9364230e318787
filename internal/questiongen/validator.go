package questiongen

import (
	"fmt"
	"strings"
)

// Validator checks a record decoded from the structured path.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier used in logs, e.g. "context".
	Name() string

	// Validate returns nil if the record passes.
	Validate(r *QuestionRecord) *ValidationError
}

// ValidationError describes why a record was dropped.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// QuestionTextValidator rejects records with a blank question.
type QuestionTextValidator struct{}

func (v *QuestionTextValidator) Name() string { return "question-text" }

func (v *QuestionTextValidator) Validate(r *QuestionRecord) *ValidationError {
	if strings.TrimSpace(r.Question) == "" {
		return &ValidationError{Validator: v.Name(), Message: "question text is empty"}
	}
	return nil
}

// CorrectOptionValidator requires the answer key to name one of the four
// options.
type CorrectOptionValidator struct{}

func (v *CorrectOptionValidator) Name() string { return "correct-option" }

func (v *CorrectOptionValidator) Validate(r *QuestionRecord) *ValidationError {
	for _, l := range OptionLetters {
		if r.CorrectOption == l {
			return nil
		}
	}
	return &ValidationError{
		Validator: v.Name(),
		Message:   fmt.Sprintf("correct_option %q is not one of A, B, C, D", r.CorrectOption),
	}
}

// ContextValidator requires a non-blank context for text-dependent
// categories. Category names are compared case-insensitively.
type ContextValidator struct {
	Categories []string
}

func (v *ContextValidator) Name() string { return "context" }

func (v *ContextValidator) Validate(r *QuestionRecord) *ValidationError {
	if !v.requiresContext(r.Category) {
		return nil
	}
	if strings.TrimSpace(r.Context) == "" {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("%s question has no context passage", r.Category),
		}
	}
	return nil
}

func (v *ContextValidator) requiresContext(category string) bool {
	category = strings.TrimSpace(category)
	for _, c := range v.Categories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

// DefaultValidators returns the standard chain for the given
// text-dependent categories.
func DefaultValidators(textDependent []string) []Validator {
	return []Validator{
		&QuestionTextValidator{},
		&CorrectOptionValidator{},
		&ContextValidator{Categories: textDependent},
	}
}
