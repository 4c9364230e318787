package questiongen

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func testNormalizer() *Normalizer {
	return NewNormalizer(DefaultValidators([]string{"Reading", "English"}), nil)
}

const validArray = `[
  {
    "context": "",
    "question": "What is 12 / 4?",
    "options": {"A": "2", "B": "3", "C": "4", "D": "6"},
    "correct_option": "B",
    "explanation": "12 divided by 4 is 3.",
    "category": "Mathematics",
    "difficulty": "Easy"
  },
  {
    "context": "The fox ran quickly across the field.",
    "question": "How did the fox move?",
    "options": {"A": "slowly", "B": "quickly", "C": "not at all", "D": "backwards"},
    "correct_option": "b",
    "explanation": "The passage says quickly.",
    "category": "Reading",
    "difficulty": "Medium"
  }
]`

func TestNormalize_Structured(t *testing.T) {
	got, path := testNormalizer().Normalize(validArray)
	if path != PathStructured {
		t.Fatalf("expected structured path, got %s", path)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Question != "What is 12 / 4?" || got[1].Question != "How did the fox move?" {
		t.Errorf("model order not preserved: %+v", got)
	}
	if got[1].CorrectOption != "B" {
		t.Errorf("expected correct option to be upper-cased, got %q", got[1].CorrectOption)
	}
}

func TestNormalize_FencedStructured(t *testing.T) {
	raw := "Sure! Here are the questions:\n```json\n" + validArray + "\n```\nGood luck."
	got, path := testNormalizer().Normalize(raw)
	if path != PathStructured || len(got) != 2 {
		t.Fatalf("expected 2 structured records, got %d via %s", len(got), path)
	}
}

func TestNormalize_ScalarCoercion(t *testing.T) {
	raw := `[{"context": "", "question": "Is 7 prime?", "options": {"A": true, "B": false, "C": 7, "D": 1.5},
	         "correct_option": "A", "explanation": "", "category": "Mathematics", "difficulty": 2}]`
	got, path := testNormalizer().Normalize(raw)
	if path != PathStructured {
		t.Fatalf("expected structured path, got %s", path)
	}
	want := Options{A: "true", B: "false", C: "7", D: "1.5"}
	if got[0].Options != want {
		t.Errorf("got options %+v, want %+v", got[0].Options, want)
	}
	if got[0].Difficulty != "2" {
		t.Errorf("expected difficulty %q, got %q", "2", got[0].Difficulty)
	}
}

func TestNormalize_DropsInvalidElements(t *testing.T) {
	raw := `[
	  {"context": "", "question": "missing difficulty", "options": {"A": "1", "B": "2", "C": "3", "D": "4"},
	   "correct_option": "A", "explanation": "", "category": "Mathematics"},
	  {"context": "", "question": "extra option", "options": {"A": "1", "B": "2", "C": "3", "D": "4", "E": "5"},
	   "correct_option": "A", "explanation": "", "category": "Mathematics", "difficulty": "Easy"},
	  {"context": "", "question": "three options", "options": {"A": "1", "B": "2", "C": "3"},
	   "correct_option": "A", "explanation": "", "category": "Mathematics", "difficulty": "Easy"},
	  {"context": "  ", "question": "reading without passage", "options": {"A": "1", "B": "2", "C": "3", "D": "4"},
	   "correct_option": "A", "explanation": "", "category": "reading", "difficulty": "Easy"},
	  {"context": "", "question": "bad key", "options": {"A": "1", "B": "2", "C": "3", "D": "4"},
	   "correct_option": "E", "explanation": "", "category": "Mathematics", "difficulty": "Easy"},
	  {"context": null, "question": "reading with null passage", "options": {"A": "1", "B": "2", "C": "3", "D": "4"},
	   "correct_option": "A", "explanation": "", "category": "Reading", "difficulty": "Easy"},
	  {"context": "", "question": "kept", "options": {"A": "1", "B": "2", "C": "3", "D": "4"},
	   "correct_option": "D", "explanation": "", "category": "", "difficulty": "Easy"}
	]`
	got, path := testNormalizer().Normalize(raw)
	if path != PathStructured {
		t.Fatalf("expected structured path, got %s", path)
	}
	if len(got) != 1 || got[0].Question != "kept" {
		t.Fatalf("expected only the valid element, got %+v", got)
	}
	if got[0].Category != "Unknown" {
		t.Errorf("blank category should default to Unknown, got %q", got[0].Category)
	}
}

func TestNormalize_NullScalarsKept(t *testing.T) {
	raw := `[{"context": null, "question": "What is 9 - 4?", "options": {"A": "5", "B": "4", "C": "3", "D": "13"},
	          "correct_option": "A", "explanation": null, "category": "Mathematics", "difficulty": "Easy"}]`
	got, path := testNormalizer().Normalize(raw)
	if path != PathStructured {
		t.Fatalf("expected structured path, got %s", path)
	}
	if len(got) != 1 {
		t.Fatalf("expected the null-context element to be kept, got %+v", got)
	}
	if got[0].Context != "" || got[0].Explanation != "" {
		t.Errorf("null should read as empty text, got context=%q explanation=%q", got[0].Context, got[0].Explanation)
	}
}

func TestNormalize_KeepsModelText(t *testing.T) {
	raw := `[{"context": "  Tom has 3 apples.\n", "question": " How many apples? ", "options": {"A": " 3", "B": "4 ", "C": "5", "D": "6"},
	          "correct_option": " c ", "explanation": " Count them. ", "category": "Mathematics", "difficulty": " Easy"}]`
	got, _ := testNormalizer().Normalize(raw)
	if len(got) != 1 {
		t.Fatalf("expected one record, got %+v", got)
	}
	want := QuestionRecord{
		Context:       "  Tom has 3 apples.\n",
		Question:      " How many apples? ",
		Options:       Options{A: " 3", B: "4 ", C: "5", D: "6"},
		CorrectOption: "C",
		Explanation:   " Count them. ",
		Category:      "Mathematics",
		Difficulty:    " Easy",
	}
	if got[0] != want {
		t.Errorf("got %+v, want %+v", got[0], want)
	}
}

func TestNormalize_AllElementsInvalidFallsBack(t *testing.T) {
	raw := `[{"question": "only a question"}]`
	got, path := testNormalizer().Normalize(raw)
	if path != PathSentinel {
		t.Fatalf("expected sentinel path, got %s", path)
	}
	if got[0] != SentinelRecord() {
		t.Errorf("expected sentinel record, got %+v", got[0])
	}
}

func TestNormalize_Fallback(t *testing.T) {
	raw := "Q: What is 3 + 4?\nA) 6\nB) 7\nC) 8\nD) 9\nAnswer: B"
	got, path := testNormalizer().Normalize(raw)
	if path != PathFallback {
		t.Fatalf("expected fallback path, got %s", path)
	}
	if len(got) != 1 || got[0].CorrectOption != "B" {
		t.Fatalf("unexpected records: %+v", got)
	}
}

func TestNormalize_FallbackSkipsValidators(t *testing.T) {
	raw := "Q: What is the main idea?\nA) x\nB) y\nCategory: Reading"
	got, path := testNormalizer().Normalize(raw)
	if path != PathFallback {
		t.Fatalf("expected fallback path, got %s", path)
	}
	if got[0].Context != "" || got[0].Category != "Reading" {
		t.Errorf("unexpected record: %+v", got[0])
	}
}

func TestNormalize_Sentinel(t *testing.T) {
	for _, raw := range []string{"", "   ", "I'm sorry, I can't do that.", "[]", "{\"questions\": 3}"} {
		got, path := testNormalizer().Normalize(raw)
		if path != PathSentinel || len(got) != 1 {
			t.Fatalf("Normalize(%q): expected one sentinel record, got %d via %s", raw, len(got), path)
		}
		if got[0].Question != "Failed to generate questions" || got[0].Explanation != "The API response format was unexpected" {
			t.Errorf("unexpected sentinel: %+v", got[0])
		}
	}
}

func TestNormalize_ServiceFailure(t *testing.T) {
	got, path := testNormalizer().ServiceFailure(errors.New("connection refused"))
	if path != PathServiceError || len(got) != 1 {
		t.Fatalf("expected a single service error record, got %d via %s", len(got), path)
	}
	rec := got[0]
	if rec.Category != "Error" || rec.CorrectOption != "A" || rec.Difficulty != "N/A" {
		t.Errorf("unexpected error record: %+v", rec)
	}
	if rec.Options != naOptions() {
		t.Errorf("expected N/A options, got %+v", rec.Options)
	}
	if !strings.Contains(rec.Explanation, "connection refused") {
		t.Errorf("expected failure in explanation, got %q", rec.Explanation)
	}
}

func TestQuestionRecord_JSONHasAllKeys(t *testing.T) {
	b, err := json.Marshal(QuestionRecord{})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"context", "question", "options", "correct_option", "explanation", "category", "difficulty"} {
		if _, ok := m[k]; !ok {
			t.Errorf("missing key %q in %s", k, b)
		}
	}
	var opts map[string]string
	if err := json.Unmarshal(m["options"], &opts); err != nil {
		t.Fatal(err)
	}
	if len(opts) != 4 {
		t.Errorf("expected 4 option keys, got %v", opts)
	}
}
