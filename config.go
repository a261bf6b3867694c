package main

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/segmentio/ksuid"
)

const defaultIdleTimeout = 5 * time.Minute

type Config struct {
	Port        string
	Origin      string
	RedisAddr   string
	Secret      string
	IdleTimeout time.Duration
}

// LoadConfig reads envFile, if present, into the environment and builds a
// Config from it, logging every default it falls back to.
func LoadConfig(envFile string) Config {
	if envFile != "" {
		err := godotenv.Load(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("failed to load env file %s: %v", envFile, err)
		}
	}

	cfg := Config{
		Port:      os.Getenv("PORT"),
		Origin:    os.Getenv("ORIGIN"),
		RedisAddr: os.Getenv("REDIS_ADDR"),
		Secret:    os.Getenv("STATE_SECRET"),
	}

	if cfg.Port == "" {
		cfg.Port = "3000"
		log.Printf("defaulting to port %s", cfg.Port)
	}
	if cfg.Origin == "" {
		cfg.Origin = "http://localhost:8080"
		log.Printf("defaulting to origin %s", cfg.Origin)
	}
	if cfg.RedisAddr == "" {
		log.Printf("REDIS_ADDR not set, cross-instance fanout disabled")
	}
	cfg.IdleTimeout = defaultIdleTimeout
	if v := os.Getenv("BROKER_IDLE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			log.Printf("invalid BROKER_IDLE_TIMEOUT %q, defaulting to %s", v, defaultIdleTimeout)
		} else {
			cfg.IdleTimeout = d
		}
	}
	if cfg.Secret == "" {
		cfg.Secret = ksuid.New().String()
		log.Printf("STATE_SECRET not set, exported diagrams are only importable until restart")
	}

	return cfg
}
