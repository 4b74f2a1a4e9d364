package config

import "time"

type Config struct {
	MemoryDir    string
	CachePath    string
	PersonasFile string
	SkillsDir    string
	Timezone     string
	LLM          LLMConfig
	Embedder     EmbedderConfig
	Retrieval    RetrievalConfig
	Storage      StorageConfig
}

type LLMConfig struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

type EmbedderConfig struct {
	Provider string
	BaseURL  string
	Model    string
	APIKey   string
}

// RetrievalConfig exposes the engine tunables as environment config.
type RetrievalConfig struct {
	TopK           int
	LexicalWeight  float64
	VectorWeight   float64
	AgreementBonus float64
	HalfLifeDays   float64
	MMRLambda      float64
	DupCutoff      float64
	MaxChunkLen    int
	CacheMax       int
	EmbedTimeout   time.Duration
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Persona is one bot identity from personas.yml. A persona may run on
// Telegram, Discord, or both.
type Persona struct {
	Name          string `yaml:"name"`
	PromptFile    string `yaml:"prompt_file"`
	TelegramToken string `yaml:"telegram_token"`
	DiscordToken  string `yaml:"discord_token"`
	Heartbeat     struct {
		Cron   string `yaml:"cron"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"heartbeat"`
}
