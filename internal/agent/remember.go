package agent

import (
	"context"
	"fmt"
	"strings"
)

// Remember stores a fact in long-term memory. Input format is
// "category: fact" with the category optional.
func (a *Agent) Remember(ctx context.Context, input string) (string, error) {
	fact := strings.TrimSpace(input)
	if fact == "" {
		return "", fmt.Errorf("nothing to remember")
	}

	category := ""
	if before, after, ok := strings.Cut(fact, ":"); ok && len(strings.Fields(before)) <= 3 {
		category = strings.TrimSpace(before)
		fact = strings.TrimSpace(after)
	}
	if fact == "" {
		return "", fmt.Errorf("nothing to remember")
	}

	if err := a.memory.Remember(ctx, fact, category); err != nil {
		return "", err
	}

	return "Noted: " + fact, nil
}
