// Package tokens estimates token counts for prompt budgeting. It uses
// tiktoken encodings when available and falls back to a character heuristic
// when the encoding cannot be loaded (for example with no network access to
// fetch the BPE files).
package tokens

import (
	"github.com/pkoukk/tiktoken-go"

	"github.com/leofalp/genai/providers/ai"
)

const defaultEncoding = "cl100k_base"

// heuristicCharsPerToken approximates English text at ~4 characters per
// token, the common rule of thumb for BPE vocabularies.
const heuristicCharsPerToken = 4

// Estimator counts tokens in text and conversations. The zero value is not
// usable; construct with NewEstimator.
type Estimator struct {
	encoder *tiktoken.Tiktoken
}

// NewEstimator creates an estimator for the given encoding name. An empty
// name selects cl100k_base. Construction never fails: when the encoding
// cannot be loaded the estimator degrades to the character heuristic.
func NewEstimator(encoding string) *Estimator {
	if encoding == "" {
		encoding = defaultEncoding
	}
	encoder, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return &Estimator{}
	}
	return &Estimator{encoder: encoder}
}

// Count returns the estimated token count of text.
func (e *Estimator) Count(text string) int {
	if text == "" {
		return 0
	}
	if e.encoder == nil {
		return heuristicCount(text)
	}
	return len(e.encoder.Encode(text, nil, nil))
}

// CountMessages estimates the token count of a conversation, including a
// small fixed overhead per message for role and framing tokens.
func (e *Estimator) CountMessages(messages []ai.Message) int {
	const perMessageOverhead = 4

	total := 0
	for _, message := range messages {
		total += perMessageOverhead
		total += e.Count(message.Content)
		for _, part := range message.Parts {
			if part.Type == ai.ContentTypeText {
				total += e.Count(part.Text)
			}
		}
	}
	return total
}

// Fits reports whether the conversation plus the reserved completion budget
// stays within limit. A non-positive limit always fits.
func (e *Estimator) Fits(messages []ai.Message, maxTokens, limit int) bool {
	if limit <= 0 {
		return true
	}
	return e.CountMessages(messages)+maxTokens <= limit
}

func heuristicCount(text string) int {
	count := (len(text) + heuristicCharsPerToken - 1) / heuristicCharsPerToken
	if count == 0 {
		count = 1
	}
	return count
}
