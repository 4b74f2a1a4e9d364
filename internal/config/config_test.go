package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRetrievalDefaults(t *testing.T) {
	cfg := loadRetrievalConfig()

	if cfg.TopK != 5 {
		t.Errorf("expected default top-k 5, got %d", cfg.TopK)
	}
	if cfg.LexicalWeight != 0.3 || cfg.VectorWeight != 0.7 {
		t.Errorf("unexpected default weights: %f / %f", cfg.LexicalWeight, cfg.VectorWeight)
	}
	if cfg.HalfLifeDays != 45 {
		t.Errorf("expected default half-life 45, got %f", cfg.HalfLifeDays)
	}
	if cfg.MaxChunkLen != 2000 {
		t.Errorf("expected default chunk cap 2000, got %d", cfg.MaxChunkLen)
	}
}

func TestRetrievalEnvOverrides(t *testing.T) {
	oldK := os.Getenv("RETRIEVAL_TOP_K")
	oldHalf := os.Getenv("RETRIEVAL_HALF_LIFE_DAYS")
	defer func() {
		os.Setenv("RETRIEVAL_TOP_K", oldK)
		os.Setenv("RETRIEVAL_HALF_LIFE_DAYS", oldHalf)
	}()

	os.Setenv("RETRIEVAL_TOP_K", "12")
	os.Setenv("RETRIEVAL_HALF_LIFE_DAYS", "90")

	cfg := loadRetrievalConfig()
	if cfg.TopK != 12 {
		t.Errorf("expected top-k 12, got %d", cfg.TopK)
	}
	if cfg.HalfLifeDays != 90 {
		t.Errorf("expected half-life 90, got %f", cfg.HalfLifeDays)
	}
}

func TestLoadPersonas(t *testing.T) {
	oldToken := os.Getenv("VERA_TG_TOKEN")
	defer os.Setenv("VERA_TG_TOKEN", oldToken)
	os.Setenv("VERA_TG_TOKEN", "123:abc")

	path := filepath.Join(t.TempDir(), "personas.yml")
	content := `personas:
  - name: vera
    prompt_file: prompts/vera.md
    telegram_token: ${VERA_TG_TOKEN}
    heartbeat:
      cron: "0 9 * * *"
      chat_id: 42
  - name: nova
    prompt_file: prompts/nova.md
    discord_token: raw-discord-token
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	personas, err := LoadPersonas(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(personas) != 2 {
		t.Fatalf("expected 2 personas, got %d", len(personas))
	}

	if personas[0].TelegramToken != "123:abc" {
		t.Errorf("expected env-expanded token, got %q", personas[0].TelegramToken)
	}
	if personas[0].Heartbeat.Cron != "0 9 * * *" || personas[0].Heartbeat.ChatID != 42 {
		t.Errorf("heartbeat not parsed: %+v", personas[0].Heartbeat)
	}
	if personas[1].DiscordToken != "raw-discord-token" {
		t.Errorf("expected literal discord token, got %q", personas[1].DiscordToken)
	}
}

func TestLoadPersonasRejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.yml")
	content := `personas:
  - name: vera
    telegram_token: a
  - name: vera
    telegram_token: b
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadPersonas(path); err == nil {
		t.Error("expected error for duplicate persona names")
	}
}

func TestLoadPersonasRequiresTransport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.yml")
	content := `personas:
  - name: silent
    prompt_file: prompts/silent.md
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadPersonas(path); err == nil {
		t.Error("expected error for persona without transport token")
	}
}
