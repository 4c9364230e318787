package questiongen

import (
	"fmt"
	"sort"
	"strings"
)

const systemPrompt = `You are an educational assistant that generates targeted practice questions from performance-gap analysis.

Rules:
- Focus the questions on the subjects where the student falls furthest below the regional and national scores.
- Every question is multiple choice with exactly four options labelled A, B, C and D, exactly one of which is correct.
- Questions that depend on a passage, such as Reading or English questions, must include the full passage in the "context" field. Never refer to a passage you have not provided.
- Output JSON only. Do not wrap the output in prose.`

// PromptBuilder renders the prompt for one generation. It is immutable
// and safe for concurrent use.
type PromptBuilder struct {
	reference Profile
	count     int
}

// NewPromptBuilder creates a builder comparing against the given national
// reference baseline and asking for count questions.
func NewPromptBuilder(reference Profile, count int) *PromptBuilder {
	return &PromptBuilder{reference: reference, count: count}
}

// Build renders the system and user messages for a student profile and
// its regional baseline.
func (b *PromptBuilder) Build(user, regional Profile) PromptMessages {
	var sb strings.Builder

	sb.WriteString("Given the following test results:\n")
	fmt.Fprintf(&sb, "Student results: %s\n", renderProfile(user))
	fmt.Fprintf(&sb, "Regional results: %s\n", renderProfile(regional))
	fmt.Fprintf(&sb, "National reference results: %s\n", renderProfile(b.reference))

	sb.WriteString("\nPerformance gaps (weakest subject first):\n")
	sb.WriteString(b.gapTable(user, regional))

	fmt.Fprintf(&sb, "\nGenerate %d practice questions that target the areas where improvement is needed most.\n", b.count)
	sb.WriteString("For Reading and English questions, include the passage the question is based on in the \"context\" field.\n")
	sb.WriteString("Spread the correct answers across A, B, C and D; do not put every correct answer under the same letter.\n")

	sb.WriteString("\nEach question must be a JSON object with these fields:\n")
	sb.WriteString("- context: the passage or scenario the question refers to (empty string if none is needed)\n")
	sb.WriteString("- question: the question text\n")
	sb.WriteString("- options: an object with exactly the keys A, B, C and D mapping to the answer choices\n")
	sb.WriteString("- correct_option: the letter of the correct choice (A, B, C or D)\n")
	sb.WriteString("- explanation: why the correct choice is right\n")
	sb.WriteString("- category: the subject the question belongs to\n")
	sb.WriteString("- difficulty: Easy, Medium or Hard\n")
	sb.WriteString("\nReturn only a JSON array.")

	return PromptMessages{System: systemPrompt, User: sb.String()}
}

type gapRow struct {
	subject     string
	vsRegional  *int
	vsReference *int
}

// gapTable lists every subject across the three profiles with the
// student's score minus the regional and reference scores.
func (b *PromptBuilder) gapTable(user, regional Profile) string {
	subjects := unionSubjects(user, regional, b.reference)

	rows := make([]gapRow, 0, len(subjects))
	for _, s := range subjects {
		rows = append(rows, gapRow{
			subject:     s,
			vsRegional:  diff(user, regional, s),
			vsReference: diff(user, b.reference, s),
		})
	}

	// Stable so that ties keep alphabetical order.
	sort.SliceStable(rows, func(i, j int) bool {
		return gapKey(rows[i]) < gapKey(rows[j])
	})

	var sb strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&sb, "- %s: student %s, regional %s, national %s, vs regional %s, vs national %s\n",
			r.subject,
			scoreOf(user, r.subject),
			scoreOf(regional, r.subject),
			scoreOf(b.reference, r.subject),
			signed(r.vsRegional),
			signed(r.vsReference),
		)
	}
	return sb.String()
}

// gapKey orders rows by their most negative known gap. Rows without any
// comparable score sort last.
func gapKey(r gapRow) int {
	const unknown = int(^uint(0) >> 1)
	key := unknown
	if r.vsRegional != nil {
		key = *r.vsRegional
	}
	if r.vsReference != nil && *r.vsReference < key {
		key = *r.vsReference
	}
	return key
}

func unionSubjects(profiles ...Profile) []string {
	seen := map[string]bool{}
	for _, p := range profiles {
		for s := range p {
			seen[s] = true
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func diff(a, b Profile, subject string) *int {
	x, okA := a[subject]
	y, okB := b[subject]
	if !okA || !okB {
		return nil
	}
	d := x - y
	return &d
}

func scoreOf(p Profile, subject string) string {
	if v, ok := p[subject]; ok {
		return fmt.Sprintf("%d", v)
	}
	return "n/a"
}

func signed(d *int) string {
	if d == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+d", *d)
}

// renderProfile renders a profile as "English: 20, Mathematics: 11".
func renderProfile(p Profile) string {
	if len(p) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(p))
	for _, s := range p.Subjects() {
		parts = append(parts, fmt.Sprintf("%s: %d", s, p[s]))
	}
	return strings.Join(parts, ", ")
}
