package entities

import (
	"sort"
	"time"
)

// Quote is one provider answer: how many units of each currency
// one unit of Base buys.
type Quote struct {
	Base      Code
	Rates     map[Code]float64
	FetchedAt time.Time
}

// Matrix maps source -> target -> factor, where
// amount_in_target = amount_in_source * factor. Self pairs are never stored.
type Matrix map[Code]map[Code]float64

// Snapshot is an immutable published matrix. It must not be mutated after
// NewSnapshot returns.
type Snapshot struct {
	Base      Code
	Matrix    Matrix
	UpdatedAt time.Time
}

func NewSnapshot(base Code, matrix Matrix, date time.Time) (*Snapshot, error) {
	if len(matrix) == 0 {
		return nil, ErrBuild
	}

	snapshot := &Snapshot{
		Base:      base,
		Matrix:    matrix,
		UpdatedAt: date,
	}
	return snapshot, nil
}

// Currencies returns the source codes present in the snapshot, sorted.
func (s *Snapshot) Currencies() []Code {
	codes := make([]Code, 0, len(s.Matrix))
	for code := range s.Matrix {
		codes = append(codes, code)
	}

	sort.Slice(codes, func(i, j int) bool {
		return codes[i] < codes[j]
	})

	return codes
}
