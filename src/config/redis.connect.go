package config

import (
	"context"
	"fmt"
	"strings"

	"nefllix/src/logger"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

func ConnectRedis(ctx context.Context) (*redis.Client, error) {
	mode := GetEnv("REDIS_MODE", "standalone")
	password := GetEnv("REDIS_PASSWORD", "")

	var client *redis.Client
	if mode == "sentinel" {
		var sentinels []string
		for _, addr := range strings.Split(GetEnv("REDIS_SENTINELS", ""), ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				sentinels = append(sentinels, addr)
			}
		}
		if len(sentinels) == 0 {
			return nil, fmt.Errorf("REDIS_SENTINELS must list at least one sentinel in sentinel mode")
		}

		client = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:       GetEnv("REDIS_MASTER_NAME", "mymaster"),
			SentinelAddrs:    sentinels,
			Password:         password,
			SentinelPassword: password,
			DB:               0,
		})
	} else {
		addr := fmt.Sprintf("%s:%s", GetEnv("REDIS_HOST", "localhost"), GetEnv("REDIS_PORT", "6379"))
		client = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       0,
		})
	}

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (%s mode): %w", mode, err)
	}

	RDB = client
	logger.Info("[Redis] connected", "mode", mode, "reply", pong)
	return client, nil
}
