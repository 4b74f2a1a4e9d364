package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bowerhall/vera/internal/agent"
	"github.com/bowerhall/vera/internal/bot"
	"github.com/bowerhall/vera/internal/config"
	"github.com/bowerhall/vera/internal/conversation"
	"github.com/bowerhall/vera/internal/embedder"
	"github.com/bowerhall/vera/internal/emotion"
	"github.com/bowerhall/vera/internal/heartbeat"
	"github.com/bowerhall/vera/internal/llm"
	"github.com/bowerhall/vera/internal/logger"
	"github.com/bowerhall/vera/internal/memory"
	"github.com/bowerhall/vera/internal/skills"
	"github.com/bowerhall/vera/internal/storage"
	"github.com/bowerhall/vera/internal/watcher"
	"github.com/bowerhall/vera/pkg/veramem"
)

const (
	rescanSpec = "30 3 * * *"
	backupSpec = "0 4 * * *"
)

func init() {
	godotenv.Load()
}

func engineConfig(r config.RetrievalConfig) veramem.Config {
	cfg := veramem.DefaultConfig()
	cfg.LexicalWeight = r.LexicalWeight
	cfg.VectorWeight = r.VectorWeight
	cfg.AgreementBonus = r.AgreementBonus
	cfg.HalfLifeDays = r.HalfLifeDays
	cfg.MMRLambda = r.MMRLambda
	cfg.DupCutoff = r.DupCutoff
	cfg.MaxChunkLen = r.MaxChunkLen
	cfg.EmbedTimeout = r.EmbedTimeout
	return cfg
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}

	personas, err := config.LoadPersonas(cfg.PersonasFile)
	if err != nil {
		logger.Fatal("failed to load personas", "error", err)
	}

	model, err := llm.New(llm.Config{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
	})
	if err != nil {
		logger.Fatal("failed to create llm", "error", err)
	}

	emb, err := embedder.New(cfg.Embedder)
	if err != nil {
		logger.Fatal("failed to create embedder", "error", err)
	}

	cache, err := veramem.OpenCache(cfg.CachePath, cfg.Retrieval.CacheMax)
	if err != nil {
		logger.Fatal("failed to open cache", "error", err)
	}
	defer cache.Close()

	engine := veramem.New(engineConfig(cfg.Retrieval), emb, cache)

	store, err := memory.New(cfg.MemoryDir, engine)
	if err != nil {
		logger.Fatal("failed to open memory", "error", err)
	}

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 5*time.Minute)
	if err := store.LoadAll(loadCtx); err != nil {
		cancelLoad()
		logger.Fatal("failed to load memory", "error", err)
	}
	cancelLoad()

	// conversation buffer shares the cache database
	convoStore, err := conversation.NewStore(cache.DB(), 0)
	if err != nil {
		logger.Fatal("failed to create conversation store", "error", err)
	}

	skillsManager := skills.NewManager(cfg.SkillsDir)

	classifier := emotion.NewClassifier(model)

	tz, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, using UTC", "timezone", cfg.Timezone)
		tz = time.UTC
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := heartbeat.NewRunner(tz)

	var names []string
	botCount := 0

	for _, p := range personas {
		a := agent.New(p, model, engine, store, convoStore, classifier, skillsManager, cfg.Timezone, cfg.Retrieval.TopK)

		var personaBots []bot.Bot

		if p.TelegramToken != "" {
			b, err := bot.NewTelegram(p.TelegramToken, a)
			if err != nil {
				logger.Fatal("failed to create telegram bot", "persona", p.Name, "error", err)
			}
			personaBots = append(personaBots, b)
			go b.Start(ctx)
		}

		if p.DiscordToken != "" {
			b, err := bot.NewDiscord(p.DiscordToken, a)
			if err != nil {
				logger.Fatal("failed to create discord bot", "persona", p.Name, "error", err)
			}
			personaBots = append(personaBots, b)
			go b.Start(ctx)
		}

		if len(personaBots) > 0 {
			if err := runner.AddCheckIn(a, personaBots[0], p.Heartbeat.Cron, p.Heartbeat.ChatID); err != nil {
				logger.Fatal("failed to schedule heartbeat", "persona", p.Name, "error", err)
			}
		}

		names = append(names, p.Name)
		botCount += len(personaBots)
	}

	if botCount == 0 {
		logger.Fatal("no transports configured, set a telegram or discord token in personas.yml")
	}

	// nightly rescan picks up files the watcher missed (offline edits, moves)
	// and prunes cache entries no live chunk references anymore
	if err := runner.AddJob("rescan", rescanSpec, func(ctx context.Context) {
		if err := store.LoadAll(ctx); err != nil {
			logger.Error("memory rescan failed", "error", err)
			return
		}

		live := make(map[string]bool)
		for _, c := range engine.Store().ListChunks() {
			live[c.ContentHash] = true
		}
		if pruned, err := cache.Prune(live); err != nil {
			logger.Error("cache prune failed", "error", err)
		} else if pruned > 0 {
			logger.Info("cache pruned", "stale", pruned)
		}
	}); err != nil {
		logger.Fatal("failed to schedule rescan", "error", err)
	}

	if cfg.Storage.Enabled {
		backup, err := storage.NewClient(storage.Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Error("failed to create storage client", "error", err)
		} else {
			initCtx, cancelInit := context.WithTimeout(ctx, 10*time.Second)
			if err := backup.Init(initCtx); err != nil {
				logger.Error("failed to init backup bucket", "error", err)
			} else {
				if err := runner.AddJob("backup", backupSpec, func(ctx context.Context) {
					if _, err := backup.Backup(ctx, cfg.MemoryDir, cfg.CachePath); err != nil {
						logger.Error("backup failed", "error", err)
					}
				}); err != nil {
					logger.Fatal("failed to schedule backup", "error", err)
				}
				logger.Info("backups enabled", "endpoint", cfg.Storage.Endpoint, "bucket", cfg.Storage.Bucket)
			}
			cancelInit()
		}
	}

	runner.Start()
	defer runner.Stop()

	w := watcher.New(cfg.MemoryDir, 0, store.Reingest)
	go func() {
		if err := w.Start(ctx); err != nil && ctx.Err() == nil {
			logger.Error("watcher stopped", "error", err)
		}
	}()

	embedderProvider := cfg.Embedder.Provider
	if embedderProvider == "" {
		embedderProvider = "none"
	}

	logger.Info("vera started",
		"personas", names,
		"llm", cfg.LLM.Provider,
		"embedder", embedderProvider,
		"memory", cfg.MemoryDir,
		"cache", cfg.CachePath,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	cancel()
}
