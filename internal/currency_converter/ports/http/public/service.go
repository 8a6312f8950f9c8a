package public

import (
	"github.com/langowen/currency_converter/internal/currency_converter/service"
	"github.com/langowen/currency_converter/internal/entities"
)

type Service interface {
	Handle(req service.Request) (any, error)
}

type Storage interface {
	Current() (*entities.Snapshot, bool)
}
