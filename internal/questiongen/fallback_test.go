package questiongen

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line   string
		kind   lineKind
		letter string
		value  string
	}{
		{"", lineSkip, "", ""},
		{"Q: What is 2+2?", lineQuestion, "", "What is 2+2?"},
		{"question: Pick one: x or y", lineQuestion, "", "Pick one: x or y"},
		{"PROBLEM: Solve", lineQuestion, "", "Solve"},
		{"A) four", lineOption, "A", "four"},
		{"B. five", lineOption, "B", "five"},
		{"D)   six  ", lineOption, "D", "six"},
		{"a) lowercase", lineSkip, "", ""},
		{"E) out of range", lineSkip, "", ""},
		{"Answer: b)", lineAnswer, "B", ""},
		{"Correct: C. because", lineAnswer, "C", ""},
		{"answer: E", lineAnswer, "", ""},
		{"Answer: The correct answer is C", lineAnswer, "C", ""},
		{"Correct: option d.", lineAnswer, "D", ""},
		{"Answer: C is correct", lineAnswer, "C", ""},
		{"Answer: none of these", lineAnswer, "", ""},
		{"answer:", lineAnswer, "", ""},
		{"Explanation: 2+2 is 4", lineExplanation, "", "2+2 is 4"},
		{"Category: Mathematics", lineCategory, "", "Mathematics"},
		{"difficulty: Hard", lineDifficulty, "", "Hard"},
		{"Some commentary", lineSkip, "", ""},
	}
	for _, tt := range tests {
		got := classifyLine(tt.line)
		if got.kind != tt.kind || got.letter != tt.letter || got.value != tt.value {
			t.Errorf("classifyLine(%q) = %+v, want kind=%d letter=%q value=%q", tt.line, got, tt.kind, tt.letter, tt.value)
		}
	}
}

func TestFallbackParser_Transitions(t *testing.T) {
	p := &fallbackParser{}

	if s := p.step(classifiedLine{kind: lineOption, letter: "A", value: "ignored"}); s != stateIdle {
		t.Fatalf("option in idle should stay idle, got %s", s)
	}
	if s := p.step(classifiedLine{kind: lineAnswer, letter: "C"}); s != stateIdle {
		t.Fatalf("answer in idle should stay idle, got %s", s)
	}

	if s := p.step(classifiedLine{kind: lineQuestion, value: "first"}); s != stateAccumulating {
		t.Fatalf("question should start accumulating, got %s", s)
	}
	if p.current.Options.A != "" {
		t.Fatal("option seen while idle must not leak into the draft")
	}

	p.step(classifiedLine{kind: lineOption, letter: "B", value: "bee"})
	p.step(classifiedLine{kind: lineAnswer, letter: "B"})
	p.step(classifiedLine{kind: lineAnswer, letter: ""})
	if p.current.CorrectOption != "B" {
		t.Fatalf("invalid answer must not overwrite, got %q", p.current.CorrectOption)
	}

	p.step(classifiedLine{kind: lineQuestion, value: "second"})
	if len(p.done) != 1 {
		t.Fatalf("expected first question flushed, got %d", len(p.done))
	}
	if p.done[0].Options.A != notAvailable || p.done[0].Options.B != "bee" {
		t.Fatalf("unexpected options: %+v", p.done[0].Options)
	}
}

func TestFallbackParser_EmptyQuestionNotFlushed(t *testing.T) {
	p := &fallbackParser{}
	p.step(classifiedLine{kind: lineQuestion, value: ""})
	p.step(classifiedLine{kind: lineOption, letter: "A", value: "x"})
	p.step(classifiedLine{kind: lineQuestion, value: "real"})
	p.flush()

	if len(p.done) != 1 || p.done[0].Question != "real" {
		t.Fatalf("expected only the non-empty question, got %+v", p.done)
	}
}

func TestParseFallback(t *testing.T) {
	text := `Here are your questions.

Q: What is 7 x 8?
A) 54
B) 56
C) 58
D) 64
Answer: B
Explanation: 7 x 8 = 56
Category: Mathematics
Difficulty: Easy

Question: Which word is a noun?
A. run
B. quickly
C. table
Correct: c.`

	got := parseFallback(text)
	if len(got) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(got))
	}

	first := got[0]
	if first.Question != "What is 7 x 8?" || first.CorrectOption != "B" {
		t.Errorf("unexpected first question: %+v", first)
	}
	if first.Options != (Options{A: "54", B: "56", C: "58", D: "64"}) {
		t.Errorf("unexpected options: %+v", first.Options)
	}
	if first.Category != "Mathematics" || first.Difficulty != "Easy" || first.Explanation != "7 x 8 = 56" {
		t.Errorf("unexpected metadata: %+v", first)
	}

	want := QuestionRecord{
		Question:      "Which word is a noun?",
		Options:       Options{A: "run", B: "quickly", C: "table", D: notAvailable},
		CorrectOption: "C",
		Category:      "Unknown",
		Difficulty:    "Medium",
	}
	if diff := cmp.Diff(want, got[1]); diff != "" {
		t.Errorf("second question mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFallback_NothingRecoverable(t *testing.T) {
	if got := parseFallback("I cannot help with that."); len(got) != 0 {
		t.Fatalf("expected no questions, got %+v", got)
	}
}
