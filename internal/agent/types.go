package agent

import (
	"sync"
	"time"

	"github.com/bowerhall/vera/internal/config"
	"github.com/bowerhall/vera/internal/conversation"
	"github.com/bowerhall/vera/internal/emotion"
	"github.com/bowerhall/vera/internal/llm"
	"github.com/bowerhall/vera/internal/memory"
	"github.com/bowerhall/vera/internal/skills"
	"github.com/bowerhall/vera/pkg/veramem"
)

// NotifyFunc pushes an unsolicited message to a chat.
type NotifyFunc func(chatID int64, message string)

type Agent struct {
	persona      config.Persona
	llm          llm.LLM
	engine       *veramem.Engine
	memory       *memory.Store
	buffer       *conversation.Store
	emotions     *emotion.Classifier
	skills       *skills.Manager
	systemPrompt string
	timezone     *time.Location
	topK         int

	// one in-flight request per session
	locks sync.Map
}

func (a *Agent) sessionLock(sessionID string) *sync.Mutex {
	mu, _ := a.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
