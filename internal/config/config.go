package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultMemoryPath   = "conversation_memory.json"
	defaultContextLimit = 5
	defaultLoopBudget   = 10
)

// Config carries everything the agent reads from the environment. A .env
// file in the working directory is merged in first; real environment
// variables win over it.
type Config struct {
	APIKey       string // ANTHROPIC_API_KEY, required
	Model        string // MAGT_MODEL, empty means the provider default
	MemoryPath   string // MAGT_MEMORY_PATH
	ContextLimit int    // MAGT_CONTEXT_LIMIT, records of history per turn
	LoopBudget   int    // MAGT_LOOP_BUDGET, model calls per turn
}

// Load reads configuration at startup. A missing API key is the only fatal
// condition; everything else has a default.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		MemoryPath:   defaultMemoryPath,
		ContextLimit: defaultContextLimit,
		LoopBudget:   defaultLoopBudget,
	}

	cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	if cfg.APIKey == "" {
		return Config{}, errors.New("ANTHROPIC_API_KEY is not set; export it or add it to .env")
	}

	cfg.Model = os.Getenv("MAGT_MODEL")
	if v := os.Getenv("MAGT_MEMORY_PATH"); v != "" {
		cfg.MemoryPath = v
	}

	var err error
	if cfg.ContextLimit, err = intEnv("MAGT_CONTEXT_LIMIT", cfg.ContextLimit); err != nil {
		return Config{}, err
	}
	if cfg.LoopBudget, err = intEnv("MAGT_LOOP_BUDGET", cfg.LoopBudget); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// intEnv parses a positive integer override, keeping fallback when unset.
func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: want a positive integer", key, v)
	}
	return n, nil
}
