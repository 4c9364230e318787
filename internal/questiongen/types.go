package questiongen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Profile maps a subject label (e.g. "Mathematics") to an integer score.
// Scores are not range checked.
type Profile map[string]int

// Subjects returns the profile's subject labels in sorted order.
func (p Profile) Subjects() []string {
	out := make([]string, 0, len(p))
	for s := range p {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// String renders the profile as "Subject=Score,..." with sorted subjects,
// the same format ParseProfile accepts.
func (p Profile) String() string {
	parts := make([]string, 0, len(p))
	for _, s := range p.Subjects() {
		parts = append(parts, fmt.Sprintf("%s=%d", s, p[s]))
	}
	return strings.Join(parts, ",")
}

// ParseProfile parses "English=21,Mathematics=18". Whitespace around
// subjects and scores is ignored. An empty string yields an empty profile.
func ParseProfile(s string) (Profile, error) {
	p := Profile{}
	s = strings.TrimSpace(s)
	if s == "" {
		return p, nil
	}

	for _, pair := range strings.Split(s, ",") {
		subject, score, ok := strings.Cut(pair, "=")
		subject = strings.TrimSpace(subject)
		if !ok || subject == "" {
			return nil, fmt.Errorf("invalid profile entry %q: expected Subject=Score", strings.TrimSpace(pair))
		}
		n, err := strconv.Atoi(strings.TrimSpace(score))
		if err != nil {
			return nil, fmt.Errorf("invalid score for %q: %w", subject, err)
		}
		p[subject] = n
	}
	return p, nil
}

// OptionLetters are the answer keys of every question, in display order.
var OptionLetters = []string{"A", "B", "C", "D"}

// Options holds the four answer choices of a question.
type Options struct {
	A string `json:"A"`
	B string `json:"B"`
	C string `json:"C"`
	D string `json:"D"`
}

// Get returns the option text for letter, or "" for an unknown letter.
func (o Options) Get(letter string) string {
	switch letter {
	case "A":
		return o.A
	case "B":
		return o.B
	case "C":
		return o.C
	case "D":
		return o.D
	}
	return ""
}

// Set assigns the option text for letter. Unknown letters are ignored.
func (o *Options) Set(letter, text string) {
	switch letter {
	case "A":
		o.A = text
	case "B":
		o.B = text
	case "C":
		o.C = text
	case "D":
		o.D = text
	}
}

// QuestionRecord is a single normalized multiple-choice question.
// All seven fields are always serialized.
type QuestionRecord struct {
	// Context is the passage a text-dependent question refers to.
	Context string `json:"context"`

	Question string  `json:"question"`
	Options  Options `json:"options"`

	// CorrectOption is one of A, B, C or D.
	CorrectOption string `json:"correct_option"`

	Explanation string `json:"explanation"`
	Category    string `json:"category"`

	// Difficulty is whatever label the model chose; it is not validated.
	Difficulty string `json:"difficulty"`
}

// Path identifies which stage of the normalizer produced a result.
type Path string

const (
	PathStructured   Path = "structured"
	PathFallback     Path = "fallback"
	PathSentinel     Path = "sentinel"
	PathServiceError Path = "service_error"
)

const (
	notAvailable    = "N/A"
	errorCategory   = "Error"
	defaultCategory = "Unknown"
	defaultLevel    = "Medium"
)

func naOptions() Options {
	return Options{A: notAvailable, B: notAvailable, C: notAvailable, D: notAvailable}
}

// ErrorRecord builds the single record returned when the completion
// service fails. The failure description is carried in Explanation.
func ErrorRecord(description string) QuestionRecord {
	return QuestionRecord{
		Question:      "Error generating questions",
		Options:       naOptions(),
		CorrectOption: "A",
		Explanation:   description,
		Category:      errorCategory,
		Difficulty:    notAvailable,
	}
}

// SentinelRecord is returned when nothing could be recovered from a reply.
func SentinelRecord() QuestionRecord {
	return QuestionRecord{
		Question:      "Failed to generate questions",
		Options:       naOptions(),
		CorrectOption: "A",
		Explanation:   "The API response format was unexpected",
		Category:      errorCategory,
		Difficulty:    notAvailable,
	}
}

// PromptMessages is the system/user message pair sent to the model.
type PromptMessages struct {
	System string
	User   string
}
