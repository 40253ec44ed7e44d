package aigateway

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// uncertaintyPhrases are the canonical signals spec.md §4.5 names for the
// follow-up heuristic ("presence of phrases like...").
var uncertaintyPhrases = []string{
	"i don't know",
	"i dont know",
	"basic knowledge",
	"not sure",
	"no idea",
	"not familiar",
}

// fuzzyMatchScoreThreshold is the minimum github.com/sahilm/fuzzy score a
// phrase must clear to count as a near-match. fuzzy.Find scores a
// contiguous (or near-contiguous) match very highly via its adjacent-match
// bonus, but penalizes one point per unmatched character in the candidate —
// so a long, unrelated transcript that merely contains the phrase's letters
// scattered as an ordered subsequence scores deeply negative, while actual
// ASR noise ("I'm not shure" against "not sure") stays well clear of this
// threshold.
const fuzzyMatchScoreThreshold = 40

// expressesUncertainty reports whether transcript contains one of the
// configured uncertainty phrases, per spec.md §4.5's "presence of phrases"
// heuristic. The primary check is a literal, case-insensitive substring
// match; a fuzzy.Find score above fuzzyMatchScoreThreshold additionally
// tolerates minor ASR transcription noise without degrading to loose
// ordered-subsequence matching across the whole transcript.
func expressesUncertainty(transcript string) bool {
	if transcript == "" {
		return false
	}
	normalized := strings.ToLower(transcript)
	candidates := []string{normalized}
	for _, phrase := range uncertaintyPhrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
		if matches := fuzzy.Find(phrase, candidates); len(matches) > 0 && matches[0].Score >= fuzzyMatchScoreThreshold {
			return true
		}
	}
	return false
}
