package tokens

import (
	"strings"
	"testing"

	"github.com/leofalp/genai/providers/ai"
)

func TestCountEmpty(t *testing.T) {
	estimator := NewEstimator("")
	if got := estimator.Count(""); got != 0 {
		t.Errorf("empty text should count 0, got %d", got)
	}
}

func TestHeuristicCount(t *testing.T) {
	// The fallback estimator rounds up at ~4 chars per token.
	estimator := &Estimator{}

	tests := []struct {
		text string
		want int
	}{
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{strings.Repeat("x", 40), 10},
	}
	for _, tt := range tests {
		if got := estimator.Count(tt.text); got != tt.want {
			t.Errorf("Count(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestCountMessagesIncludesOverhead(t *testing.T) {
	estimator := &Estimator{}
	messages := []ai.Message{
		{Role: ai.RoleUser, Content: "abcd"},
		{Role: ai.RoleAssistant, Content: "abcd"},
	}
	// 2 messages * (4 overhead + 1 token) = 10
	if got := estimator.CountMessages(messages); got != 10 {
		t.Errorf("CountMessages = %d, want 10", got)
	}
}

func TestFits(t *testing.T) {
	estimator := &Estimator{}
	messages := []ai.Message{{Role: ai.RoleUser, Content: "abcd"}}

	if !estimator.Fits(messages, 10, 100) {
		t.Error("small conversation should fit a 100 token limit")
	}
	if estimator.Fits(messages, 100, 10) {
		t.Error("reserved budget beyond the limit should not fit")
	}
	if !estimator.Fits(messages, 1000, 0) {
		t.Error("non-positive limit always fits")
	}
}
