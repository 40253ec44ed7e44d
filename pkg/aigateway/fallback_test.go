package aigateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpressesUncertainty_MatchesKnownPhrasesAndNoise(t *testing.T) {
	assert.True(t, expressesUncertainty("Honestly I don't know how that works."))
	assert.True(t, expressesUncertainty("I'm not shure, maybe it caches something"))
	assert.True(t, expressesUncertainty("I only have basic knowledge of it"))
}

func TestExpressesUncertainty_ConfidentAnswerDoesNotTrigger(t *testing.T) {
	assert.False(t, expressesUncertainty(""))
	assert.False(t, expressesUncertainty("A binary search tree keeps elements ordered so lookups are O(log n)."))
}

func TestExpressesUncertainty_LongConfidentAnswerDoesNotTrigger(t *testing.T) {
	assert.False(t, expressesUncertainty(
		"Generics in Go use type parameters declared with square brackets after the function name, "+
			"constrained by an interface listing permitted types."))
}

func TestFallbackQuestions_DefaultsCodingLanguageToPython(t *testing.T) {
	qs := FallbackQuestions("")
	found := false
	for _, q := range qs {
		if q.CodingLanguage != "" {
			found = true
			assert.Equal(t, "PYTHON", q.CodingLanguage)
		}
	}
	assert.True(t, found)
}

func TestFallbackQuestions_PreservesRequestedCodingLanguage(t *testing.T) {
	qs := FallbackQuestions("JAVASCRIPT")
	for _, q := range qs {
		if q.CodingLanguage != "" {
			assert.Equal(t, "JAVASCRIPT", q.CodingLanguage)
		}
	}
}
