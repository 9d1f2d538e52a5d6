package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/yungbote/scriptpulse-backend/internal/clients/genai"
	redisclient "github.com/yungbote/scriptpulse-backend/internal/clients/redis"
	"github.com/yungbote/scriptpulse-backend/internal/platform/logger"
)

type Clients struct {
	// GenAI is nil when GENAI_API_KEY is unset; generation then serves
	// the deterministic template bank.
	GenAI genai.Client

	// BenchmarkCache is nil when REDIS_ADDR is unset; benchmark reads
	// then go straight to Postgres.
	BenchmarkCache redisclient.BenchmarkCache
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	var gen genai.Client
	if strings.TrimSpace(os.Getenv("GENAI_API_KEY")) != "" {
		g, err := genai.NewClient(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init genai client: %w", err)
		}
		gen = g
	} else {
		log.Warn("GENAI_API_KEY not set; script generation will use the template bank")
	}

	var cache redisclient.BenchmarkCache
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		c, err := redisclient.NewBenchmarkCache(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis benchmark cache: %w", err)
		}
		cache = c
	}

	return Clients{GenAI: gen, BenchmarkCache: cache}, nil
}
