package aigateway

import (
	"github.com/pkoukk/tiktoken-go"
)

// tokenCounter estimates prompt token counts so long résumé/job-description
// text can be trimmed before it overflows a model's context window.
type tokenCounter struct {
	enc *tiktoken.Tiktoken
}

func newTokenCounter() *tokenCounter {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		// Falls back to nil; callers treat a nil encoder as "count unknown"
		// rather than failing the whole gateway over a missing vocab file.
		return &tokenCounter{}
	}
	return &tokenCounter{enc: enc}
}

func (c *tokenCounter) count(text string) int {
	if c.enc == nil {
		return len(text) / 4 // rough fallback estimate
	}
	return len(c.enc.Encode(text, nil, nil))
}

// trimToTokens truncates text to at most maxTokens tokens, preserving the
// head of the text (job descriptions/résumés read front-to-back).
func (c *tokenCounter) trimToTokens(text string, maxTokens int) string {
	if c.enc == nil || maxTokens <= 0 {
		return text
	}
	ids := c.enc.Encode(text, nil, nil)
	if len(ids) <= maxTokens {
		return text
	}
	return c.enc.Decode(ids[:maxTokens])
}
