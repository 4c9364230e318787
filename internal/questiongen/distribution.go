package questiongen

// answerDistribution counts correct options per letter.
func answerDistribution(records []QuestionRecord) map[string]int {
	dist := make(map[string]int, len(OptionLetters))
	for _, r := range records {
		dist[r.CorrectOption]++
	}
	return dist
}

// skewedLetter returns the letter holding more than half of the correct
// answers in a batch of at least four, or "" when the batch looks balanced.
func skewedLetter(dist map[string]int, total int) string {
	if total < 4 {
		return ""
	}
	for _, l := range OptionLetters {
		if dist[l]*2 > total {
			return l
		}
	}
	return ""
}
