package questiongen

import "time"

// DefaultReference is the national median baseline used when none is
// configured.
const DefaultReference = "English=21,Mathematics=21,Reading=21,Science=21"

// Config controls the behavior of the Generator.
type Config struct {
	// Reference is the national baseline in ParseProfile format.
	Reference string `mapstructure:"reference"`

	// QuestionCount is the number of questions requested per generation.
	QuestionCount int `mapstructure:"question_count"`

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int `mapstructure:"max_tokens"`

	Temperature float64 `mapstructure:"temperature"`
	TopP        float64 `mapstructure:"top_p"`

	// TextDependentCategories must carry a context passage.
	TextDependentCategories []string `mapstructure:"text_dependent_categories"`

	// Timeout bounds a single generation, including any provider retries.
	// Zero means no deadline beyond the caller's context. It mirrors
	// llm.timeout and is set by the caller.
	Timeout time.Duration `mapstructure:"-"`

	// Validators run in order on every structured record; the first
	// failure drops the record. Built from TextDependentCategories when
	// nil.
	Validators []Validator `mapstructure:"-"`
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	categories := []string{"Reading", "English"}
	return Config{
		Reference:               DefaultReference,
		QuestionCount:           5,
		MaxTokens:               4096,
		Temperature:             0.1,
		TopP:                    0.1,
		TextDependentCategories: categories,
		Validators:              DefaultValidators(categories),
	}
}
