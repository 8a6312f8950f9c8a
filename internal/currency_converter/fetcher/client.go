package fetcher

import (
	"context"
	"github.com/langowen/currency_converter/internal/entities"
)

type HTTPClient interface {
	GetRates(ctx context.Context, base entities.Code, symbols []entities.Code) (*entities.Quote, error)
}
