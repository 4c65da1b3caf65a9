package events

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ahlemhorchani/smart-interventions/internal/config"
	"github.com/ahlemhorchani/smart-interventions/internal/domain"
)

// RedisPublisher PUBLISHes events as JSON on one channel / Publie les événements en JSON sur un canal
type RedisPublisher struct {
	client  *goredis.Client
	channel string
}

// NewRedisPublisher connects and pings the server / Se connecte et ping le serveur
func NewRedisPublisher(ctx context.Context, cfg config.RedisConfig) (*RedisPublisher, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	channel := cfg.Channel
	if channel == "" {
		channel = "interventions.events"
	}
	return &RedisPublisher{client: client, channel: channel}, nil
}

func (p *RedisPublisher) Publish(ctx context.Context, evt domain.LifecycleEvent) error {
	raw, err := encode(evt)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, raw).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", evt.Type, err)
	}
	return nil
}

func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
