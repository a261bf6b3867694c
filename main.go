package main

import (
	"log"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var envFile, port, origin, redisAddr string
	var idleTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "workflow-api",
		Short: "Collaborative workflow diagram server",
		Long: `Serve workflow diagrams for collaborative editing. Clients stream
pointer events over /ws/{id} (or POST them to /update/{id}) and receive the
resulting shape, resize and connection updates.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(envFile)
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("origin") {
				cfg.Origin = origin
			}
			if cmd.Flags().Changed("redis-addr") {
				cfg.RedisAddr = redisAddr
			}
			if cmd.Flags().Changed("idle-timeout") {
				cfg.IdleTimeout = idleTimeout
			}
			return serve(cfg)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", ".env", "Environment file to load before reading configuration")
	cmd.Flags().StringVar(&port, "port", "", "Port to listen on (overrides PORT)")
	cmd.Flags().StringVar(&origin, "origin", "", "Allowed CORS origin (overrides ORIGIN)")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "Redis address for cross-instance fanout (overrides REDIS_ADDR)")

	cmd.Flags().DurationVar(&idleTimeout, "idle-timeout", defaultIdleTimeout, "Close diagrams without clients after this long, 0 to keep them (overrides BROKER_IDLE_TIMEOUT)")

	return cmd
}

func serve(cfg Config) error {
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
	}

	server := NewServer(cfg, rdb)

	log.Printf("listening on port %s", cfg.Port)
	return http.ListenAndServe(":"+cfg.Port, server.Handler())
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}
