package redis

import (
	"context"
	"encoding/json"
	"github.com/langowen/currency_converter/internal/entities"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"log/slog"
	"time"
)

// Publisher is the part of the redis client the notifier needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type Storage struct {
	rdb     Publisher
	channel string
}

func NewStorage(client Publisher, channel string) *Storage {
	return &Storage{
		rdb:     client,
		channel: channel,
	}
}

func InitStorage(ctx context.Context, options *redis.Options, channel string) (*Storage, *redis.Client, error) {
	const op = "storage.redis.InitStorage"

	redisClient := redis.NewClient(options)

	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		_ = redisClient.Close()
		return nil, nil, errors.Wrap(err, op)
	}

	return NewStorage(redisClient, channel), redisClient, nil
}

type updateMessage struct {
	Base       entities.Code   `json:"base"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Currencies []entities.Code `json:"currencies"`
}

// PublishUpd announces a freshly published snapshot to subscribers.
func (s *Storage) PublishUpd(ctx context.Context, snapshot *entities.Snapshot) error {
	const op = "storage.redis.PublishUpd"

	payload, err := json.Marshal(updateMessage{
		Base:       snapshot.Base,
		UpdatedAt:  snapshot.UpdatedAt,
		Currencies: snapshot.Currencies(),
	})
	if err != nil {
		return errors.Wrap(err, op)
	}

	receivers, err := s.rdb.Publish(ctx, s.channel, payload).Result()
	if err != nil {
		return errors.Wrap(err, op)
	}

	slog.Debug("Published rates update", "op", op, "channel", s.channel, "receivers", receivers)

	return nil
}
