package service

import "github.com/langowen/currency_converter/internal/entities"

type Storage interface {
	Lookup(src, tgt entities.Code) (float64, error)
	SnapshotFor(src entities.Code) (map[entities.Code]float64, error)
	Ready() bool
}
