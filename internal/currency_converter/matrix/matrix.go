// Package matrix derives the full pairwise rate table from a single
// base-currency quote.
package matrix

import (
	"github.com/langowen/currency_converter/internal/entities"
	"github.com/pkg/errors"
	"math"
)

// Build triangulates every ordered pair of distinct currencies through base.
// rates must hold a non-zero entry for every currency except base; any
// other entries are ignored. The result is either complete or an error
// wrapping entities.ErrBuild.
func Build(base entities.Code, rates map[entities.Code]float64, currencies []entities.Code) (entities.Matrix, error) {
	const op = "matrix.Build"

	if !contains(currencies, base) {
		return nil, errors.Wrapf(entities.ErrBuild, "%s: base %s is not supported", op, base)
	}

	for _, code := range currencies {
		if code == base {
			continue
		}
		rate, ok := rates[code]
		if !ok {
			return nil, errors.Wrapf(entities.ErrBuild, "%s: missing rate for %s", op, code)
		}
		if rate == 0 {
			return nil, errors.Wrapf(entities.ErrBuild, "%s: zero rate for %s", op, code)
		}
	}

	result := make(entities.Matrix, len(currencies))
	for _, src := range currencies {
		row := make(map[entities.Code]float64, len(currencies)-1)
		for _, tgt := range currencies {
			if src == tgt {
				continue
			}

			factor := Factor(base, src, tgt, rates)
			if math.IsNaN(factor) || math.IsInf(factor, 0) || factor <= 0 {
				return nil, errors.Wrapf(entities.ErrBuild, "%s: invalid factor %v for %s->%s", op, factor, src, tgt)
			}
			row[tgt] = factor
		}
		result[src] = row
	}

	return result, nil
}

// Factor returns the multiplier converting src into tgt given base-relative rates.
// The caller guarantees src != tgt and that the needed rates exist.
func Factor(base, src, tgt entities.Code, rates map[entities.Code]float64) float64 {
	switch {
	case src == base:
		return rates[tgt]
	case tgt == base:
		return 1 / rates[src]
	default:
		return rates[tgt] / rates[src]
	}
}

func contains(codes []entities.Code, code entities.Code) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
