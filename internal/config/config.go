package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

func Load() (*Config, error) {
	memoryDir := os.Getenv("VERA_MEMORY_DIR")
	if memoryDir == "" {
		memoryDir = "memory"
	}

	cachePath := os.Getenv("VERA_CACHE")
	if cachePath == "" {
		cachePath = "vera.db"
	}

	personasFile := os.Getenv("VERA_PERSONAS")
	if personasFile == "" {
		personasFile = "personas.yml"
	}

	skillsDir := os.Getenv("VERA_SKILLS_DIR")
	if skillsDir == "" {
		skillsDir = "skills"
	}

	timezone := os.Getenv("TZ")
	if timezone == "" {
		timezone = "UTC"
	}

	llmConfig, err := loadLLMConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		MemoryDir:    memoryDir,
		CachePath:    cachePath,
		PersonasFile: personasFile,
		SkillsDir:    skillsDir,
		Timezone:     timezone,
		LLM:          llmConfig,
		Embedder:     loadEmbedderConfig(),
		Retrieval:    loadRetrievalConfig(),
		Storage:      loadStorageConfig(),
	}, nil
}

func loadRetrievalConfig() RetrievalConfig {
	cfg := RetrievalConfig{
		TopK:           5,
		LexicalWeight:  0.3,
		VectorWeight:   0.7,
		AgreementBonus: 0.1,
		HalfLifeDays:   45,
		MMRLambda:      0.7,
		DupCutoff:      0.7,
		MaxChunkLen:    2000,
		CacheMax:       0,
		EmbedTimeout:   15 * time.Second,
	}

	if k, err := strconv.Atoi(os.Getenv("RETRIEVAL_TOP_K")); err == nil && k > 0 {
		cfg.TopK = k
	}
	if v, ok := envFloat("RETRIEVAL_LEXICAL_WEIGHT"); ok {
		cfg.LexicalWeight = v
	}
	if v, ok := envFloat("RETRIEVAL_VECTOR_WEIGHT"); ok {
		cfg.VectorWeight = v
	}
	if v, ok := envFloat("RETRIEVAL_AGREEMENT_BONUS"); ok {
		cfg.AgreementBonus = v
	}
	if v, ok := envFloat("RETRIEVAL_HALF_LIFE_DAYS"); ok {
		cfg.HalfLifeDays = v
	}
	if v, ok := envFloat("RETRIEVAL_MMR_LAMBDA"); ok {
		cfg.MMRLambda = v
	}
	if v, ok := envFloat("RETRIEVAL_DUP_CUTOFF"); ok {
		cfg.DupCutoff = v
	}
	if n, err := strconv.Atoi(os.Getenv("RETRIEVAL_MAX_CHUNK_LEN")); err == nil && n > 0 {
		cfg.MaxChunkLen = n
	}
	if n, err := strconv.Atoi(os.Getenv("EMBED_CACHE_MAX")); err == nil && n > 0 {
		cfg.CacheMax = n
	}
	if secs, err := strconv.Atoi(os.Getenv("EMBED_TIMEOUT_SECONDS")); err == nil && secs > 0 {
		cfg.EmbedTimeout = time.Duration(secs) * time.Second
	}

	return cfg
}

func envFloat(key string) (float64, bool) {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func loadStorageConfig() StorageConfig {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "minio:9000"
	}

	bucket := os.Getenv("MINIO_BUCKET")
	if bucket == "" {
		bucket = "vera-backups"
	}

	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	secretKey := os.Getenv("MINIO_SECRET_KEY")

	return StorageConfig{
		Enabled:   accessKey != "" && secretKey != "",
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
		Bucket:    bucket,
		UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
	}
}

func loadEmbedderConfig() EmbedderConfig {
	return EmbedderConfig{
		Provider: os.Getenv("EMBEDDER_PROVIDER"),
		BaseURL:  os.Getenv("EMBEDDER_URL"),
		Model:    os.Getenv("EMBEDDER_MODEL"),
		APIKey:   os.Getenv("EMBEDDER_API_KEY"),
	}
}

func loadLLMConfig() (LLMConfig, error) {
	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		provider = "claude"
	}

	apiKey, err := getAPIKey(provider)
	if err != nil {
		return LLMConfig{}, err
	}

	return LLMConfig{
		Provider: provider,
		APIKey:   apiKey,
		Model:    os.Getenv("LLM_MODEL"),
		BaseURL:  os.Getenv("LLM_BASE_URL"),
	}, nil
}

func getAPIKey(provider string) (string, error) {
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		return key, nil
	}

	switch provider {
	case "claude":
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			return "", fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
		return key, nil
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return "", fmt.Errorf("OPENAI_API_KEY not set")
		}
		return key, nil
	case "kimi":
		key := os.Getenv("KIMI_API_KEY")
		if key == "" {
			return "", fmt.Errorf("KIMI_API_KEY not set")
		}
		return key, nil
	case "groq":
		key := os.Getenv("GROQ_API_KEY")
		if key == "" {
			return "", fmt.Errorf("GROQ_API_KEY not set")
		}
		return key, nil
	case "ollama":
		// Ollama doesn't need an API key
		return "ollama", nil
	default:
		return "", fmt.Errorf("unknown provider: %s", provider)
	}
}
