package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bowerhall/vera/internal/llm"
	"github.com/bowerhall/vera/internal/logger"
)

const heartbeatPrompt = `Based on the stored context below, craft a brief, natural check-in message.

Guidelines:
- If there are recent plans or open topics, ask about the most relevant one
- If nothing stands out, just say a casual hi or ask what they're up to
- Keep it short (1-2 sentences)
- Don't mention that you're reading stored memory

Stored context:
%s

Craft your check-in message:`

// Heartbeat generates a proactive check-in from recent memory.
func (a *Agent) Heartbeat(ctx context.Context) (string, error) {
	logger.Debug("heartbeat triggered", "persona", a.persona.Name)

	now := time.Now().In(a.timezone)
	results, err := a.engine.Search(ctx, "recent plans open topics current goals", a.topK, now)
	if err != nil {
		return "", fmt.Errorf("heartbeat recall: %w", err)
	}

	var contextBuilder strings.Builder
	if len(results) > 0 {
		for _, r := range results {
			fmt.Fprintf(&contextBuilder, "- %s\n", strings.ReplaceAll(r.Text, "\n", " "))
		}
	} else {
		contextBuilder.WriteString("(No stored context yet)")
	}

	prompt := fmt.Sprintf(heartbeatPrompt, contextBuilder.String())

	response, err := a.llm.Chat(ctx, a.systemPrompt, []llm.Message{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("heartbeat chat: %w", err)
	}

	logger.Debug("heartbeat generated", "persona", a.persona.Name, "chars", len(response))

	if err := a.memory.LogDaily(ctx, "sent a heartbeat check-in", now); err != nil {
		logger.Warn("daily journal write failed", "error", err)
	}

	return response, nil
}
