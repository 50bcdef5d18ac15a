package session

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloud-ru/mcp-deposits-go/internal/calculations"
	"github.com/cloud-ru/mcp-deposits-go/internal/config"
	"github.com/cloud-ru/mcp-deposits-go/internal/history"
	"github.com/cloud-ru/mcp-deposits-go/internal/kvstore"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	cfg := &config.Config{MaxRate: 200, MaxCapital: 1e12}
	store := history.NewStore(kvstore.NewMemory(), history.Options{}, zerolog.Nop())
	return New(cfg, store, zerolog.Nop())
}

func TestNewSessionDefaults(t *testing.T) {
	s := newTestSession(t)

	assert.Equal(t, float64(calculations.DefaultCapital), s.Capital())
	assert.Len(t, s.Banks(), 3)
	assert.False(t, s.IsDataComplete())
	assert.False(t, s.HasResults())

	_, err := s.BestInvestment()
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestCalculateRequiresCompleteData(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Calculate()
	assert.ErrorIs(t, err, ErrIncompleteData)

	s.LoadExampleData()
	require.True(t, s.IsDataComplete())

	results, err := s.Calculate()
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.True(t, s.HasResults())

	best, err := s.BestInvestment()
	require.NoError(t, err)
	assert.Equal(t, "nacion", best.Bank.ID)
	assert.Len(t, s.Ranking(), 9)
}

func TestUpdateBankRate(t *testing.T) {
	s := newTestSession(t)

	for bank := 0; bank < 3; bank++ {
		for year := 0; year < 3; year++ {
			require.NoError(t, s.UpdateBankRate(bank, year, float64(40+bank+year)))
		}
	}
	assert.True(t, s.IsDataComplete())
	assert.Equal(t, []float64{42, 43, 44}, s.Banks()[2].Rates)

	assert.ErrorIs(t, s.UpdateBankRate(3, 0, 10), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.UpdateBankRate(0, 3, 10), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.UpdateBankRate(-1, 0, 10), ErrIndexOutOfRange)
	assert.Error(t, s.UpdateBankRate(0, 0, 250))
}

func TestBanksAreCopied(t *testing.T) {
	s := newTestSession(t)
	s.LoadExampleData()

	banks := s.Banks()
	banks[0].Rates[0] = 0

	assert.True(t, s.IsDataComplete())
}

func TestSetCapitalAndBanks(t *testing.T) {
	s := newTestSession(t)

	require.NoError(t, s.SetCapital(100000))
	assert.Equal(t, 100000.0, s.Capital())
	assert.Error(t, s.SetCapital(-5))

	require.NoError(t, s.SetBanks([]calculations.Bank{
		calculations.NewBank("a", "A", "A", "", "", 40, 40, 40),
	}))
	results, err := s.Calculate()
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 148212.65, results[0].Monthly.FinalAmount, 0.01)

	assert.Error(t, s.SetBanks([]calculations.Bank{calculations.NewBank("a", "A", "A", "", "", 1)}))
}

func TestReset(t *testing.T) {
	s := newTestSession(t)
	s.LoadExampleData()
	require.NoError(t, s.SetCapital(1))
	_, err := s.Calculate()
	require.NoError(t, err)

	s.Reset()

	assert.Equal(t, float64(calculations.DefaultCapital), s.Capital())
	assert.False(t, s.HasResults())
	assert.False(t, s.IsDataComplete())
}

func TestSaveToHistoryRequiresResults(t *testing.T) {
	s := newTestSession(t)
	_, err := s.SaveToHistory(context.Background())
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestSaveSnapshotsCalculatedInputs(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	s.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	s.LoadExampleData()
	_, err := s.Calculate()
	require.NoError(t, err)

	// Edits after the calculation are not part of the saved snapshot
	require.NoError(t, s.UpdateBankRate(0, 0, 1))
	require.NoError(t, s.SetCapital(5))

	snap, err := s.SaveToHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(calculations.DefaultCapital), snap.Capital)
	assert.Equal(t, 45.5, snap.Banks[0].Rates[0])
	assert.Equal(t, "2024-01-02T03:04:05.000Z", snap.Timestamp)

	list := s.History(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, snap.ID, list[0].ID)
}

func TestLoadFromHistoryRecalculates(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	s.LoadExampleData()
	require.NoError(t, s.SetCapital(300000))
	original, err := s.Calculate()
	require.NoError(t, err)
	snap, err := s.SaveToHistory(ctx)
	require.NoError(t, err)

	s.Reset()
	require.False(t, s.HasResults())

	capital, results, err := s.LoadFromHistory(ctx, snap.ID)
	require.NoError(t, err)

	assert.Equal(t, original, results)
	assert.Equal(t, 300000.0, capital)
	assert.Equal(t, 300000.0, s.Capital())
	assert.Equal(t, calculations.ExampleBanks(), s.Banks())
	assert.True(t, s.HasResults())

	_, _, err = s.LoadFromHistory(ctx, "missing")
	assert.ErrorIs(t, err, history.ErrNotFound)
}

func TestHistoryPassthrough(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	s.LoadExampleData()
	_, err := s.Calculate()
	require.NoError(t, err)

	a, err := s.SaveToHistory(ctx)
	require.NoError(t, err)
	_, err = s.SaveToHistory(ctx)
	require.NoError(t, err)

	require.NoError(t, s.DeleteHistoryItem(ctx, a.ID))
	assert.Len(t, s.History(ctx), 1)

	require.NoError(t, s.ClearHistory(ctx))
	assert.Empty(t, s.History(ctx))
}

func TestCalculateWithCapital(t *testing.T) {
	s := newTestSession(t)
	s.LoadExampleData()
	require.NoError(t, s.SetCapital(1000))

	capital, results, err := s.CalculateWithCapital()
	require.NoError(t, err)
	assert.Equal(t, 1000.0, capital)
	assert.Equal(t, 1000.0, s.CalculatedCapital())
	require.Len(t, results, 3)

	require.NoError(t, s.SetCapital(5000))
	assert.Equal(t, 1000.0, s.CalculatedCapital(), "editing inputs does not change the last calculation")
}

// consistent reports whether evaluations were computed with capital.
func consistent(capital float64, evals []calculations.BankEvaluation) bool {
	for _, e := range evals {
		want := capital * (1 + e.AverageRate/100)
		if math.Abs(e.Annual.FinalAmount-want) > 1e-6 {
			return false
		}
	}
	return true
}

func TestConcurrentCalculateAndSave(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	s.LoadExampleData()

	const workers = 15
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(capital float64) {
			defer wg.Done()
			assert.NoError(t, s.SetCapital(capital))

			got, evals, err := s.CalculateWithCapital()
			if assert.NoError(t, err) {
				assert.True(t, consistent(got, evals), "capital %v does not match evaluations", got)
			}

			_, err = s.SaveToHistory(ctx)
			assert.NoError(t, err)
			_ = s.Ranking()
			_ = s.Results()
		}(float64(1000 * (i + 1)))
	}
	wg.Wait()

	list := s.History(ctx)
	require.Len(t, list, workers)
	for _, snap := range list {
		assert.True(t, consistent(snap.Capital, snap.Evaluations), "snapshot %s mixes inputs", snap.ID)
	}
}
