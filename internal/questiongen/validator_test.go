package questiongen

import "testing"

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Validator: "context", Message: "missing passage"}
	expected := `validator "context": missing passage`
	if err.Error() != expected {
		t.Errorf("got %q, want %q", err.Error(), expected)
	}
}

func TestDefaultConfig_ValidatorChain(t *testing.T) {
	cfg := DefaultConfig()
	names := []string{"question-text", "correct-option", "context"}
	if len(cfg.Validators) != len(names) {
		t.Fatalf("expected %d validators, got %d", len(names), len(cfg.Validators))
	}
	for i, v := range cfg.Validators {
		if v.Name() != names[i] {
			t.Errorf("validator %d: expected %q, got %q", i, names[i], v.Name())
		}
	}
}

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.QuestionCount != 5 {
		t.Errorf("expected QuestionCount 5, got %d", cfg.QuestionCount)
	}
	if cfg.MaxTokens != 4096 {
		t.Errorf("expected MaxTokens 4096, got %d", cfg.MaxTokens)
	}
	if cfg.Temperature != 0.1 || cfg.TopP != 0.1 {
		t.Errorf("expected Temperature and TopP 0.1, got %f %f", cfg.Temperature, cfg.TopP)
	}
	if cfg.Reference != DefaultReference {
		t.Errorf("unexpected reference %q", cfg.Reference)
	}
}

func TestContextValidator(t *testing.T) {
	v := &ContextValidator{Categories: []string{"Reading", "English"}}
	tests := []struct {
		category string
		context  string
		ok       bool
	}{
		{"Reading", "A passage.", true},
		{"Reading", "", false},
		{"ENGLISH", " \t", false},
		{" english ", "", false},
		{"Mathematics", "", true},
	}
	for _, tt := range tests {
		err := v.Validate(&QuestionRecord{Category: tt.category, Context: tt.context})
		if (err == nil) != tt.ok {
			t.Errorf("category=%q context=%q: got err=%v, want ok=%v", tt.category, tt.context, err, tt.ok)
		}
	}
}

func TestCorrectOptionValidator(t *testing.T) {
	v := &CorrectOptionValidator{}
	for _, l := range OptionLetters {
		if err := v.Validate(&QuestionRecord{CorrectOption: l}); err != nil {
			t.Errorf("%s should be valid: %v", l, err)
		}
	}
	for _, bad := range []string{"", "E", "a", "AB"} {
		if err := v.Validate(&QuestionRecord{CorrectOption: bad}); err == nil {
			t.Errorf("%q should be rejected", bad)
		}
	}
}

func TestQuestionTextValidator(t *testing.T) {
	v := &QuestionTextValidator{}
	if err := v.Validate(&QuestionRecord{Question: "  "}); err == nil {
		t.Error("blank question should be rejected")
	}
	if err := v.Validate(&QuestionRecord{Question: "Why?"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
