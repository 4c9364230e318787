package questiongen

import (
	"strings"
)

// parserState is the state of the line-oriented fallback parser.
type parserState int

const (
	stateIdle parserState = iota
	stateAccumulating
)

func (s parserState) String() string {
	if s == stateAccumulating {
		return "accumulating"
	}
	return "idle"
}

// lineKind classifies one trimmed line of a free-form reply.
type lineKind int

const (
	lineSkip lineKind = iota
	lineQuestion
	lineOption
	lineAnswer
	lineExplanation
	lineCategory
	lineDifficulty
)

// classifiedLine is a line reduced to its kind and payload. Letter is set
// for options and answers.
type classifiedLine struct {
	kind   lineKind
	letter string
	value  string
}

var (
	questionPrefixes = []string{"q:", "question:", "problem:"}
	answerPrefixes   = []string{"correct:", "answer:"}
)

// classifyLine inspects a trimmed line. Keyword prefixes are matched
// case-insensitively; option markers ("A)" or "A.") are case-sensitive.
func classifyLine(line string) classifiedLine {
	if line == "" {
		return classifiedLine{kind: lineSkip}
	}
	lower := strings.ToLower(line)

	if hasAnyPrefix(lower, questionPrefixes) {
		return classifiedLine{kind: lineQuestion, value: afterColon(line)}
	}

	for _, l := range OptionLetters {
		if strings.HasPrefix(line, l+")") || strings.HasPrefix(line, l+".") {
			return classifiedLine{kind: lineOption, letter: l, value: strings.TrimSpace(line[2:])}
		}
	}

	if hasAnyPrefix(lower, answerPrefixes) {
		return classifiedLine{kind: lineAnswer, letter: answerLetter(afterColon(line))}
	}

	switch {
	case strings.HasPrefix(lower, "explanation:"):
		return classifiedLine{kind: lineExplanation, value: afterColon(line)}
	case strings.HasPrefix(lower, "category:"):
		return classifiedLine{kind: lineCategory, value: afterColon(line)}
	case strings.HasPrefix(lower, "difficulty:"):
		return classifiedLine{kind: lineDifficulty, value: afterColon(line)}
	}

	return classifiedLine{kind: lineSkip}
}

// answerLetter extracts the answer key from "B", "b)", "C. because..." or
// "The correct answer is D." The leading token wins; the trailing one is
// tried when the leading one is not a letter A..D. Returns "" otherwise.
func answerLetter(v string) string {
	fields := strings.Fields(v)
	if len(fields) == 0 {
		return ""
	}
	if l := optionLetter(fields[0]); l != "" {
		return l
	}
	return optionLetter(fields[len(fields)-1])
}

func optionLetter(tok string) string {
	tok = strings.ToUpper(strings.TrimRight(tok, ")."))
	for _, l := range OptionLetters {
		if tok == l {
			return l
		}
	}
	return ""
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func afterColon(line string) string {
	_, after, _ := strings.Cut(line, ":")
	return strings.TrimSpace(after)
}

// fallbackParser accumulates questions from classified lines.
type fallbackParser struct {
	state   parserState
	current QuestionRecord
	done    []QuestionRecord
}

func newDraft(text string) QuestionRecord {
	return QuestionRecord{
		Question:      text,
		CorrectOption: "A",
		Category:      defaultCategory,
		Difficulty:    defaultLevel,
	}
}

// step applies one classified line and returns the next state.
func (p *fallbackParser) step(cl classifiedLine) parserState {
	if cl.kind == lineQuestion {
		p.flush()
		p.current = newDraft(cl.value)
		p.state = stateAccumulating
		return p.state
	}

	if p.state == stateIdle {
		return p.state
	}

	switch cl.kind {
	case lineOption:
		p.current.Options.Set(cl.letter, cl.value)
	case lineAnswer:
		if cl.letter != "" {
			p.current.CorrectOption = cl.letter
		}
	case lineExplanation:
		p.current.Explanation = cl.value
	case lineCategory:
		p.current.Category = cl.value
	case lineDifficulty:
		p.current.Difficulty = cl.value
	}
	return p.state
}

// flush finalizes the in-progress question if it has text.
func (p *fallbackParser) flush() {
	if p.state != stateAccumulating || strings.TrimSpace(p.current.Question) == "" {
		return
	}
	rec := p.current
	for _, l := range OptionLetters {
		if rec.Options.Get(l) == "" {
			rec.Options.Set(l, notAvailable)
		}
	}
	p.done = append(p.done, rec)
}

// parseFallback recovers questions from a "Q:/A)/Answer:" style reply.
// Records from this path are not run through the validator chain.
func parseFallback(text string) []QuestionRecord {
	p := &fallbackParser{}
	for _, line := range strings.Split(text, "\n") {
		p.step(classifyLine(strings.TrimSpace(line)))
	}
	p.flush()
	return p.done
}
