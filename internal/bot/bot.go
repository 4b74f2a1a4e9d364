package bot

import (
	"github.com/bowerhall/vera/internal/agent"
)

func NewTelegram(token string, agent *agent.Agent) (Bot, error) {
	return newTelegram(token, agent)
}

func NewDiscord(token string, agent *agent.Agent) (Bot, error) {
	return newDiscord(token, agent)
}
