package main

import (
	"context"
	"log"
	"time"

	"github.com/AiSchool-Admin/AiSchool-Backend/internal/ai"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/cache"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/config"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/db"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/homework"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/httpapi"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/httpapi/handlers"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/popularity"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/quota"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/skill"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/store/rabbitmq"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/store/redisstore"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/tutor"
)

func main() {
	cfg := config.Load()

	gdb := db.Connect(cfg.DBDSN)

	// Cache and popularity degrade to process-local stand-ins when redis is
	// unreachable: generation keeps working, only cross-process sharing and
	// warming signals are lost.
	var contentCache cache.Cache
	var popTracker popularity.Tracker

	rds := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	err := rds.Ping(pingCtx)
	cancel()
	if err != nil {
		log.Printf("redis unreachable addr=%s err=%v, cache degraded to no-op", cfg.RedisAddr, err)
		contentCache = cache.Noop{}
		popTracker = popularity.NewMemory()
	} else {
		contentCache = rds
		popTracker = rds
	}

	// Provider registry (route by AI_PROVIDER)
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

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
	if err != nil {
		log.Fatalf("rabbit: %v", err)
	}
	defer publisher.Close()

	ledger := quota.NewLedger(gdb)
	lessonRepo := tutor.NewRepo(gdb)
	skillSvc := skill.NewService(skill.NewRepo(gdb), contentCache)
	tutorSvc := tutor.NewService(lessonRepo, skillSvc, contentCache, popTracker, ledger,
		provider, cfg.GenerationCost, cfg.CacheTTLRequest, cfg.GenMaxTokens)
	homeworkSvc := homework.NewService(homework.NewRepo(gdb), ledger, publisher, cfg.GenerationCost)

	h := handlers.NewHandler(gdb, cfg, tutorSvc, homeworkSvc, skillSvc, lessonRepo)
	r := httpapi.NewRouter(cfg, h)

	log.Printf("api listening on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("server: %v", err)
	}
}
