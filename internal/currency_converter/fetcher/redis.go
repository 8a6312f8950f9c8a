package fetcher

import (
	"context"
	"github.com/langowen/currency_converter/internal/entities"
)

type RedisStorage interface {
	PublishUpd(ctx context.Context, snapshot *entities.Snapshot) error
}
