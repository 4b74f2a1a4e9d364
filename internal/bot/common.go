package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bowerhall/vera/internal/agent"
	"github.com/bowerhall/vera/internal/system"
)

const helpText = `/status - host health snapshot
/recall <query> - raw memory search results
/remember [category:] <fact> - store a long-term fact
/help - this message

Anything else goes straight to the assistant.`

// handleCommand intercepts transport-level slash commands. Unknown slash
// commands fall through to the agent so skill commands still work.
func handleCommand(ctx context.Context, a *agent.Agent, text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "/") {
		return "", false
	}

	cmd, rest, _ := strings.Cut(trimmed, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "/help":
		return helpText, true

	case "/status":
		return system.Collect().Format(), true

	case "/remember":
		reply, err := a.Remember(ctx, rest)
		if err != nil {
			return "Usage: /remember [category:] <fact>", true
		}
		return reply, true

	case "/recall":
		if rest == "" {
			return "Usage: /recall <query>", true
		}
		results, err := a.Recall(ctx, rest)
		if err != nil {
			return "Recall failed: " + err.Error(), true
		}
		if len(results) == 0 {
			return "Nothing found.", true
		}

		var sb strings.Builder
		for i, r := range results {
			fmt.Fprintf(&sb, "%d. [%.3f] %s\n   from %s\n",
				i+1, r.Score, truncate(strings.ReplaceAll(r.Text, "\n", " "), 120), r.SourcePath)
		}
		return sb.String(), true
	}

	return "", false
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
