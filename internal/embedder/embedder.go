package embedder

import (
	"fmt"

	"github.com/bowerhall/vera/internal/config"
	"github.com/bowerhall/vera/pkg/veramem"
	"github.com/bowerhall/vera/pkg/veramem/ollama"
)

// New builds the configured embedding provider. An empty provider disables
// vector retrieval entirely; the engine degrades to lexical-only.
func New(cfg config.EmbedderConfig) (veramem.Embedder, error) {
	switch cfg.Provider {
	case "ollama":
		return ollama.NewEmbedder(cfg.BaseURL, cfg.Model), nil
	case "openai":
		return newOpenAI(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown embedder provider: %s", cfg.Provider)
	}
}
