// Package emotion tags user messages with a coarse emotion label used to
// tint the persona prompt.
package emotion

import (
	"context"
	"fmt"
	"strings"

	"github.com/bowerhall/vera/internal/llm"
	"github.com/bowerhall/vera/internal/logger"
)

// Labels the classifier may return. Anything else collapses to "normal".
var Labels = []string{"anxious", "tired", "sad", "frustrated", "normal", "happy", "excited"}

const classifyPrompt = "You are an emotion classifier. Output exactly one label for the " +
	"user message below, with no other text:\n" +
	"anxious, tired, sad, frustrated, normal, happy, excited"

type Classifier struct {
	llm llm.LLM
}

func NewClassifier(model llm.LLM) *Classifier {
	return &Classifier{llm: model}
}

// Classify returns an emotion label for the message. Any failure or
// unrecognized output falls back to "normal"; classification never blocks a
// reply.
func (c *Classifier) Classify(ctx context.Context, message string) string {
	if c.llm == nil || strings.TrimSpace(message) == "" {
		return "normal"
	}

	resp, err := c.llm.Chat(ctx, classifyPrompt, []llm.Message{
		{Role: "user", Content: fmt.Sprintf("User message: %s", message)},
	})
	if err != nil {
		logger.Debug("emotion classification failed", "error", err)
		return "normal"
	}

	label := strings.ToLower(strings.TrimSpace(resp))
	for _, valid := range Labels {
		if label == valid {
			return valid
		}
	}

	// a chatty model may wrap the label in a sentence
	for _, valid := range Labels {
		if strings.Contains(label, valid) {
			return valid
		}
	}

	logger.Debug("unknown emotion label", "label", label)
	return "normal"
}
