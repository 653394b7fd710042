package config

import (
	"os"
	"strconv"

	"QRDetect/pkg/pool"
)

const (
	defaultInitialPoolSize = 10
	defaultMaxPoolSize     = 50

	minInitialPoolSize = 1
	maxInitialPoolSize = 100
	maxMaxPoolSize     = 200
)

// NewPoolConfig reads the detector pool bounds from the environment.
// POOL_INITIAL_SIZE defaults to 10 and is clamped to [1, 100];
// POOL_MAX_SIZE defaults to 50 and is clamped to [initial, 200].
// Unparseable values fall back to the defaults before clamping.
func NewPoolConfig() pool.Config {
	initial := envInt("POOL_INITIAL_SIZE", defaultInitialPoolSize)
	if initial < minInitialPoolSize {
		initial = minInitialPoolSize
	}
	if initial > maxInitialPoolSize {
		initial = maxInitialPoolSize
	}

	max := envInt("POOL_MAX_SIZE", defaultMaxPoolSize)
	if max < initial {
		max = initial
	}
	if max > maxMaxPoolSize {
		max = maxMaxPoolSize
	}

	return pool.Config{
		InitialSize: initial,
		MaxSize:     max,
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
