package matrix

import (
	"github.com/langowen/currency_converter/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math/rand"
	"testing"
)

const tolerance = 1e-9

func TestBuild_Triangulation(t *testing.T) {
	currencies := []entities.Code{"X", "A", "B"}
	rates := map[entities.Code]float64{"A": 2.0, "B": 4.0}

	m, err := Build("X", rates, currencies)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, m["A"]["B"], tolerance)
	assert.InDelta(t, 0.5, m["B"]["A"], tolerance)
	assert.InDelta(t, 2.0, m["X"]["A"], tolerance)
	assert.InDelta(t, 0.5, m["A"]["X"], tolerance)
	assert.InDelta(t, 4.0, m["X"]["B"], tolerance)
	assert.InDelta(t, 0.25, m["B"]["X"], tolerance)
}

func TestBuild_CompleteAndReciprocal(t *testing.T) {
	currencies := entities.SupportedCodes()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		base := currencies[rng.Intn(len(currencies))]
		rates := make(map[entities.Code]float64)
		for _, c := range currencies {
			if c != base {
				rates[c] = 0.001 + rng.Float64()*500
			}
		}

		m, err := Build(base, rates, currencies)
		require.NoError(t, err)
		require.Len(t, m, len(currencies))

		for _, a := range currencies {
			require.Len(t, m[a], len(currencies)-1)
			_, self := m[a][a]
			assert.False(t, self, "self pair stored for %s", a)

			for _, b := range currencies {
				if a == b {
					continue
				}
				assert.Greater(t, m[a][b], 0.0)
				assert.InDelta(t, 1.0, m[a][b]*m[b][a], 1e-9)
			}
		}
	}
}

func TestBuild_IgnoresBaseAndExtraEntries(t *testing.T) {
	rates := map[entities.Code]float64{"USD": 7, "EUR": 0.9, "JPY": 150, "GBP": 0.8, "BTC": 0.00001}

	m, err := Build("USD", rates, entities.SupportedCodes())
	require.NoError(t, err)

	assert.InDelta(t, 0.9, m["USD"]["EUR"], tolerance)
	_, ok := m["BTC"]
	assert.False(t, ok)
}

func TestBuild_Errors(t *testing.T) {
	currencies := entities.SupportedCodes()

	tests := []struct {
		name  string
		base  entities.Code
		rates map[entities.Code]float64
	}{
		{
			name:  "missing rate",
			base:  "USD",
			rates: map[entities.Code]float64{"EUR": 0.9, "JPY": 150},
		},
		{
			name:  "zero denominator",
			base:  "USD",
			rates: map[entities.Code]float64{"EUR": 0.9, "JPY": 0, "GBP": 0.8},
		},
		{
			name:  "negative rate",
			base:  "USD",
			rates: map[entities.Code]float64{"EUR": -0.9, "JPY": 150, "GBP": 0.8},
		},
		{
			name:  "unsupported base",
			base:  "BTC",
			rates: map[entities.Code]float64{"USD": 1, "EUR": 0.9, "JPY": 150, "GBP": 0.8},
		},
		{
			name:  "nil rates",
			base:  "USD",
			rates: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Build(tt.base, tt.rates, currencies)
			assert.ErrorIs(t, err, entities.ErrBuild)
			assert.Nil(t, m)
		})
	}
}
