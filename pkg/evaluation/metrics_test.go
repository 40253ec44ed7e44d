package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeMetrics_FillerWordsAndWPM(t *testing.T) {
	m := ComputeMetrics("um so like I basically solved it", 30)
	assert.GreaterOrEqual(t, m.FillerWordCount, 3)
	assert.Greater(t, m.WordsPerMinute, 0.0)
}

func TestComputeMetrics_ZeroDurationLeavesWPMZero(t *testing.T) {
	m := ComputeMetrics("hello world", 0)
	assert.Equal(t, 0.0, m.WordsPerMinute)
}

func TestComputeMetrics_SentimentPositive(t *testing.T) {
	m := ComputeMetrics("I felt great and confident, it was easy and enjoyable", 20)
	assert.Greater(t, m.SentimentScore, 0.0)
}

func TestComputeMetrics_SentimentNegative(t *testing.T) {
	m := ComputeMetrics("I was nervous and struggled, it felt difficult and I got stuck", 20)
	assert.Less(t, m.SentimentScore, 0.0)
}

func TestComputeMetrics_NeutralWhenNoLexiconHits(t *testing.T) {
	m := ComputeMetrics("the quick brown fox jumps over the lazy dog", 20)
	assert.Equal(t, 0.0, m.SentimentScore)
}

func TestComputeMetrics_EmptyTranscript(t *testing.T) {
	m := ComputeMetrics("", 30)
	assert.Equal(t, 0, m.FillerWordCount)
	assert.Equal(t, 0.0, m.WordsPerMinute)
	assert.Equal(t, 0.0, m.SentimentScore)
}
