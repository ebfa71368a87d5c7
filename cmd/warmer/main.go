// The warmer binary runs one proactive cache-warming sweep and exits. It is
// meant to be invoked by an external daily scheduler (cron); it takes no
// parameters beyond the environment.
package main

import (
	"context"
	"log"
	"time"

	"github.com/AiSchool-Admin/AiSchool-Backend/internal/ai"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/config"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/db"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/store/redisstore"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/tutor"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/warmer"
)

func main() {
	cfg := config.Load()

	gdb := db.Connect(cfg.DBDSN)

	rds := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	err := rds.Ping(pingCtx)
	cancel()
	if err != nil {
		// without the backing store there is nothing to warm
		log.Fatalf("redis unreachable addr=%s err=%v", cfg.RedisAddr, err)
	}

	reg := ai.NewRegistry()
	reg.Register("openrouter", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		if model == "" {
			model = cfg.OpenRouterModel
		}
		return ai.NewOpenRouterProvider(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, model,
			cfg.OpenRouterSiteURL, cfg.OpenRouterAppName), nil
	})
	reg.Register("ollama", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		if model == "" {
			model = cfg.OllamaModel
		}
		return ai.NewOllamaProvider(cfg.OllamaBaseURL, model), nil
	})
	provider, err := reg.Get(context.Background(), cfg.AIProvider, "")
	if err != nil {
		log.Fatalf("ai provider: %v", err)
	}

	w := warmer.New(tutor.NewRepo(gdb), rds, rds, provider, cfg.WarmerTopN, cfg.CacheTTLWarmed, cfg.GenMaxTokens)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if err := w.Run(ctx); err != nil {
		log.Fatalf("warmer: %v", err)
	}
}
