// Package evaluation implements the Evaluation Engine (C7): it scores a
// COMPLETED session's responses and persists the result, per spec.md §4.7.
package evaluation

import (
	"strings"
	"unicode"
)

// fillerWords is the fixed list mechanical metrics are measured against,
// per spec.md §4.7 step 7 ("total filler words against a fixed list").
var fillerWords = map[string]bool{
	"um": true, "uh": true, "umm": true, "uhh": true,
	"like": true, "basically": true, "literally": true,
	"actually": true, "you know": true, "i mean": true,
	"sort of": true, "kind of": true, "so yeah": true,
}

// positiveWords/negativeWords back a coarse lexicon-based sentiment score,
// in the same family as the fixed-list filler-word approach above: cheap,
// deterministic, and explicitly never substituted for the LLM's scores.
var positiveWords = map[string]bool{
	"good": true, "great": true, "excellent": true, "confident": true,
	"enjoy": true, "love": true, "strong": true, "successfully": true,
	"happy": true, "excited": true, "clear": true, "easy": true,
}

var negativeWords = map[string]bool{
	"bad": true, "difficult": true, "hard": true, "struggle": true,
	"confused": true, "unsure": true, "fail": true, "failed": true,
	"nervous": true, "worried": true, "problem": true, "stuck": true,
}

// TranscriptMetrics holds the per-response mechanical measurements
// evaluation stores alongside, but never in place of, the LLM's scores.
type TranscriptMetrics struct {
	FillerWordCount int
	WordsPerMinute  float64
	SentimentScore  float64 // -1..1
}

// ComputeMetrics derives mechanical metrics from a transcript spoken over
// durationSeconds. A non-positive duration leaves WordsPerMinute at zero
// rather than dividing by it.
func ComputeMetrics(transcript string, durationSeconds float64) TranscriptMetrics {
	words := tokenizeWords(transcript)
	m := TranscriptMetrics{
		FillerWordCount: countFillerWords(transcript),
		SentimentScore:  scoreSentiment(words),
	}
	if durationSeconds > 0 && len(words) > 0 {
		m.WordsPerMinute = float64(len(words)) / (durationSeconds / 60)
	}
	return m
}

func tokenizeWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
}

func countFillerWords(transcript string) int {
	lower := strings.ToLower(transcript)
	count := 0
	for phrase := range fillerWords {
		count += strings.Count(lower, phrase)
	}
	return count
}

func scoreSentiment(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	var pos, neg int
	for _, w := range words {
		lw := strings.ToLower(w)
		if positiveWords[lw] {
			pos++
		}
		if negativeWords[lw] {
			neg++
		}
	}
	if pos == 0 && neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}
