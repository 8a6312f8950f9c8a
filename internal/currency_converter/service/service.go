package service

import (
	"encoding/json"
	"github.com/langowen/currency_converter/internal/entities"
	"github.com/pkg/errors"
	"math"
)

type Service struct {
	storage Storage
}

func NewService(storage Storage) *Service {
	return &Service{
		storage: storage,
	}
}

// Handle dispatches a decoded request. The result is one of *ConvertResult,
// map[entities.Code]float64 or CurrencyList.
func (s *Service) Handle(req Request) (any, error) {
	switch r := req.(type) {
	case ConvertRequest:
		return s.Convert(r.Source, r.Target, r.Amount)
	case RatesRequest:
		return s.RatesFor(r.Code)
	case SupportedRequest:
		return s.SupportedCurrencies(), nil
	default:
		return nil, entities.ErrUnknownAction
	}
}

func (s *Service) Convert(source, target entities.Code, amount any) (*ConvertResult, error) {
	const op = "service.Convert"

	value, err := parseAmount(amount)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	if !s.storage.Ready() {
		return nil, errors.Wrap(entities.ErrCacheUnavailable, op)
	}

	factor, err := s.factor(source, target)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: %s->%s", op, source, target)
	}

	converted := value * factor
	if math.IsInf(converted, 0) || math.IsNaN(converted) {
		return nil, errors.Wrapf(entities.ErrAmountOutOfRange, "%s: %v %s->%s", op, value, source, target)
	}

	return &ConvertResult{
		SourceCurrency:  source,
		TargetCurrency:  target,
		Amount:          value,
		ConvertedAmount: converted,
	}, nil
}

func (s *Service) RatesFor(code entities.Code) (map[entities.Code]float64, error) {
	const op = "service.RatesFor"

	if !s.storage.Ready() {
		return nil, errors.Wrap(entities.ErrCacheUnavailable, op)
	}

	rates, err := s.storage.SnapshotFor(code)
	if err != nil {
		return nil, errors.Wrapf(notFoundAsUnknown(err), "%s: %s", op, code)
	}

	return rates, nil
}

// SupportedCurrencies lists the static currency set sorted by code.
func (s *Service) SupportedCurrencies() CurrencyList {
	return CurrencyList(entities.SupportedCurrencies())
}

// factor resolves the conversion factor. A currency converted into itself
// uses factor 1 as long as the snapshot knows the code.
func (s *Service) factor(source, target entities.Code) (float64, error) {
	if source == target {
		if _, err := s.storage.SnapshotFor(source); err != nil {
			return 0, notFoundAsUnknown(err)
		}
		return 1, nil
	}

	factor, err := s.storage.Lookup(source, target)
	if err != nil {
		return 0, notFoundAsUnknown(err)
	}
	return factor, nil
}

func notFoundAsUnknown(err error) error {
	if errors.Is(err, entities.ErrNotFound) {
		return entities.ErrUnknownCurrency
	}
	return err
}

func parseAmount(amount any) (float64, error) {
	var value float64

	switch a := amount.(type) {
	case float64:
		value = a
	case float32:
		value = float64(a)
	case int:
		value = float64(a)
	case int32:
		value = float64(a)
	case int64:
		value = float64(a)
	case uint:
		value = float64(a)
	case uint32:
		value = float64(a)
	case uint64:
		value = float64(a)
	case json.Number:
		f, err := a.Float64()
		if err != nil {
			return 0, entities.ErrInvalidAmount
		}
		value = f
	default:
		return 0, entities.ErrInvalidAmount
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, entities.ErrInvalidAmount
	}

	return value, nil
}
