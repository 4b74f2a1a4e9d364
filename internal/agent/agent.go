package agent

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bowerhall/vera/internal/config"
	"github.com/bowerhall/vera/internal/conversation"
	"github.com/bowerhall/vera/internal/emotion"
	"github.com/bowerhall/vera/internal/llm"
	"github.com/bowerhall/vera/internal/logger"
	"github.com/bowerhall/vera/internal/memory"
	"github.com/bowerhall/vera/internal/skills"
	"github.com/bowerhall/vera/pkg/veramem"
)

const defaultPrompt = "You are a warm, concise personal assistant. Answer in the user's language."

func New(
	persona config.Persona,
	model llm.LLM,
	engine *veramem.Engine,
	mem *memory.Store,
	buffer *conversation.Store,
	classifier *emotion.Classifier,
	skillsMgr *skills.Manager,
	timezone string,
	topK int,
) *Agent {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		logger.Warn("invalid timezone, using UTC", "timezone", timezone, "error", err)
		loc = time.UTC
	}

	if topK <= 0 {
		topK = 5
	}

	return &Agent{
		persona:      persona,
		llm:          model,
		engine:       engine,
		memory:       mem,
		buffer:       buffer,
		emotions:     classifier,
		skills:       skillsMgr,
		systemPrompt: loadSystemPrompt(persona.PromptFile),
		timezone:     loc,
		topK:         topK,
	}
}

func (a *Agent) Name() string {
	return a.persona.Name
}

func loadSystemPrompt(path string) string {
	if path == "" {
		return defaultPrompt
	}
	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("prompt file unreadable, using default", "path", path, "error", err)
		return defaultPrompt
	}
	return string(content)
}

// Process answers one user message: recall relevant memory, classify the
// emotional tone, match a skill brief, call the model with the recent
// conversation window, then journal the exchange.
func (a *Agent) Process(ctx context.Context, sessionID, userMessage string) (string, error) {
	logger.Debug("message received", "persona", a.persona.Name, "session", sessionID)

	mu := a.sessionLock(sessionID)
	if !mu.TryLock() {
		logger.Debug("session busy", "session", sessionID)
		return "I'm still working on your previous message, one moment!", nil
	}
	defer mu.Unlock()

	now := time.Now().In(a.timezone)
	system := a.buildSystemPrompt(ctx, userMessage, now)

	history, err := a.buffer.GetRecent(sessionID)
	if err != nil {
		logger.Warn("conversation window unavailable", "error", err)
	}

	messages := make([]llm.Message, 0, len(history)+1)
	for _, m := range history {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: userMessage})

	response, err := a.llm.Chat(ctx, system, messages)
	if err != nil {
		logger.Error("chat failed", "persona", a.persona.Name, "error", err)
		return "", fmt.Errorf("chat: %w", err)
	}

	if err := a.buffer.Add(sessionID, "user", userMessage); err != nil {
		logger.Warn("buffer write failed", "error", err)
	}
	if err := a.buffer.Add(sessionID, "assistant", response); err != nil {
		logger.Warn("buffer write failed", "error", err)
	}

	if err := a.memory.LogDaily(ctx, fmt.Sprintf("%s asked about: %s",
		sessionID, truncate(userMessage, 80)), now); err != nil {
		logger.Warn("daily journal write failed", "error", err)
	}

	return response, nil
}

// Recall exposes raw retrieval results, used by the /recall command.
func (a *Agent) Recall(ctx context.Context, query string) ([]veramem.Result, error) {
	return a.engine.Search(ctx, query, a.topK, time.Now().In(a.timezone))
}

func (a *Agent) buildSystemPrompt(ctx context.Context, userMessage string, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(a.systemPrompt)

	results, err := a.engine.Search(ctx, userMessage, a.topK, now)
	if err != nil {
		logger.Warn("memory recall failed", "error", err)
	}
	if len(results) > 0 {
		sb.WriteString("\n\n## Relevant memory\n")
		for _, r := range results {
			sb.WriteString("- ")
			sb.WriteString(strings.ReplaceAll(r.Text, "\n", " "))
			sb.WriteString("\n")
		}
	}

	if a.emotions != nil {
		if label := a.emotions.Classify(ctx, userMessage); label != "normal" {
			fmt.Fprintf(&sb, "\nThe user sounds %s. Respond accordingly.\n", label)
		}
	}

	if a.skills != nil {
		if skill := a.skills.Match(userMessage); skill != nil {
			logger.Debug("skill activated", "skill", skill.Name)
			fmt.Fprintf(&sb, "\n## Active skill: %s\n\n%s\n", skill.Name, skill.Brief)
		}
	}

	fmt.Fprintf(&sb, "\nCurrent time: %s\n", now.Format("2006-01-02 15:04 MST"))
	return sb.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
