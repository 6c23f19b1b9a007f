package main

import (
	"context"
	"log"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ijsvault/vaultadmin/internal/config"
	"github.com/ijsvault/vaultadmin/internal/mockserver"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Without a configured redis, run an embedded one so the server stays a
	// single self-contained binary.
	redisAddr := cfg.RedisAddr
	if redisAddr == "" {
		mini, err := miniredis.Run()
		if err != nil {
			log.Fatalf("Failed to start embedded redis: %v", err)
		}
		defer mini.Close()
		redisAddr = mini.Addr()
		log.Printf("Embedded redis listening on %s", redisAddr)
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	srv := mockserver.New(rdb, []byte(cfg.TokenSecret), nil)
	log.Printf("Mock IJS VAULT admin API starting on %s", cfg.MockListenAddr)
	log.Fatal(srv.Start(cfg.MockListenAddr))
}
