package memory

import (
	"github.com/langowen/currency_converter/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
	"time"
)

// uniformSnapshot builds a snapshot in which every factor equals v, so a
// reader can detect a torn read by comparing values from one call.
func uniformSnapshot(t *testing.T, v float64) *entities.Snapshot {
	t.Helper()

	codes := entities.SupportedCodes()
	m := make(entities.Matrix, len(codes))
	for _, src := range codes {
		row := make(map[entities.Code]float64, len(codes)-1)
		for _, tgt := range codes {
			if src != tgt {
				row[tgt] = v
			}
		}
		m[src] = row
	}

	s, err := entities.NewSnapshot("USD", m, time.Now())
	require.NoError(t, err)
	return s
}

func TestCache_EmptyBeforeReplace(t *testing.T) {
	c := NewCache()

	assert.False(t, c.Ready())

	_, err := c.Lookup("USD", "EUR")
	assert.ErrorIs(t, err, entities.ErrNotFound)

	_, err = c.SnapshotFor("USD")
	assert.ErrorIs(t, err, entities.ErrNotFound)

	s, ok := c.Current()
	assert.False(t, ok)
	assert.Nil(t, s)
}

func TestCache_ReplaceAndLookup(t *testing.T) {
	c := NewCache()
	require.NoError(t, c.Replace(uniformSnapshot(t, 2)))

	assert.True(t, c.Ready())

	f, err := c.Lookup("USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, 2.0, f)

	_, err = c.Lookup("USD", "USD")
	assert.ErrorIs(t, err, entities.ErrNotFound)

	_, err = c.Lookup("USD", "BTC")
	assert.ErrorIs(t, err, entities.ErrNotFound)

	_, err = c.Lookup("BTC", "USD")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestCache_SnapshotForReturnsCopy(t *testing.T) {
	c := NewCache()
	require.NoError(t, c.Replace(uniformSnapshot(t, 3)))

	row, err := c.SnapshotFor("EUR")
	require.NoError(t, err)
	assert.Len(t, row, 3)
	assert.NotContains(t, row, entities.Code("EUR"))

	row["USD"] = 100

	f, err := c.Lookup("EUR", "USD")
	require.NoError(t, err)
	assert.Equal(t, 3.0, f)

	_, err = c.SnapshotFor("BTC")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestCache_ReplaceRejectsIncomplete(t *testing.T) {
	c := NewCache()
	require.NoError(t, c.Replace(uniformSnapshot(t, 1)))

	assert.ErrorIs(t, c.Replace(nil), entities.ErrBuild)
	assert.ErrorIs(t, c.Replace(&entities.Snapshot{Base: "USD"}), entities.ErrBuild)

	f, err := c.Lookup("USD", "GBP")
	require.NoError(t, err)
	assert.Equal(t, 1.0, f)
}

func TestCache_ConcurrentReplaceNeverMixes(t *testing.T) {
	c := NewCache()
	require.NoError(t, c.Replace(uniformSnapshot(t, 1)))

	const writes = 500
	snapshots := make([]*entities.Snapshot, writes)
	for i := range snapshots {
		snapshots[i] = uniformSnapshot(t, float64(i+2))
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	errs := make(chan string, 64)

	for r := 0; r < 8; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}

				row, err := c.SnapshotFor("JPY")
				if err != nil {
					errs <- err.Error()
					return
				}
				var first float64
				for _, v := range row {
					if first == 0 {
						first = v
					} else if v != first {
						errs <- "mixed snapshot in SnapshotFor"
						return
					}
				}

				s, ok := c.Current()
				if !ok {
					errs <- "snapshot disappeared"
					return
				}
				a := s.Matrix["USD"]["EUR"]
				b := s.Matrix["GBP"]["JPY"]
				if a != b {
					errs <- "mixed snapshot in Current"
					return
				}
			}
		}()
	}

	for _, s := range snapshots {
		require.NoError(t, c.Replace(s))
	}
	close(stop)
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}

	f, err := c.Lookup("EUR", "USD")
	require.NoError(t, err)
	assert.Equal(t, float64(writes+1), f)
}
