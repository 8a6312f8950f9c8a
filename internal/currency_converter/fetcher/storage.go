package fetcher

import "github.com/langowen/currency_converter/internal/entities"

type Storage interface {
	Replace(snapshot *entities.Snapshot) error
}
