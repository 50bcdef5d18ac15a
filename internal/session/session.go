// Package session holds the working state of one calculation session:
// the capital and bank rates being edited and the results of the last
// calculation. Calculations themselves are delegated to the pure functions
// of the calculations package.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cloud-ru/mcp-deposits-go/internal/calculations"
	"github.com/cloud-ru/mcp-deposits-go/internal/config"
	"github.com/cloud-ru/mcp-deposits-go/internal/history"
	"github.com/cloud-ru/mcp-deposits-go/internal/validators"
)

var (
	// ErrIncompleteData is returned by Calculate when some bank lacks valid positive rates.
	ErrIncompleteData = errors.New("данные банков заполнены не полностью")
	// ErrNoResults is returned when an operation needs a finished calculation.
	ErrNoResults = errors.New("нет результатов расчета")
	// ErrIndexOutOfRange is returned by UpdateBankRate for an unknown bank or year.
	ErrIndexOutOfRange = errors.New("индекс вне допустимого диапазона")
)

// HistoryStore is the part of history.Store used by the session.
type HistoryStore interface {
	Save(ctx context.Context, snapshot history.Snapshot) error
	List(ctx context.Context) []history.Snapshot
	LoadOne(ctx context.Context, id string) (history.Snapshot, error)
	DeleteOne(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// Session is safe for concurrent use.
type Session struct {
	mu      sync.RWMutex
	cfg     *config.Config
	history HistoryStore
	log     zerolog.Logger
	now     func() time.Time

	capital float64
	banks   []calculations.Bank

	// inputs that produced results
	calcCapital float64
	calcBanks   []calculations.Bank
	results     []calculations.BankEvaluation
}

// New creates a session with the default capital and empty bank rates.
func New(cfg *config.Config, store HistoryStore, log zerolog.Logger) *Session {
	return &Session{
		cfg:     cfg,
		history: store,
		log:     log.With().Str("component", "session").Logger(),
		now:     time.Now,
		capital: calculations.DefaultCapital,
		banks:   calculations.InitialBanks(),
	}
}

func (s *Session) Capital() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.capital
}

func (s *Session) SetCapital(capital float64) error {
	if err := validators.CheckCapital(s.cfg, capital); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.capital = capital
	return nil
}

// Banks returns a copy of the banks being edited.
func (s *Session) Banks() []calculations.Bank {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneBanks(s.banks)
}

func (s *Session) SetBanks(banks []calculations.Bank) error {
	if err := validators.CheckBanks(s.cfg, banks); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banks = cloneBanks(banks)
	return nil
}

// UpdateBankRate sets the rate of one bank for one historical year.
func (s *Session) UpdateBankRate(bankIndex, yearIndex int, rate float64) error {
	if err := validators.CheckRate(s.cfg, rate); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if bankIndex < 0 || bankIndex >= len(s.banks) {
		return fmt.Errorf("bank %d: %w", bankIndex, ErrIndexOutOfRange)
	}
	if yearIndex < 0 || yearIndex >= len(s.banks[bankIndex].Rates) {
		return fmt.Errorf("year %d: %w", yearIndex, ErrIndexOutOfRange)
	}

	bank := s.banks[bankIndex].Clone()
	bank.Rates[yearIndex] = rate
	s.banks[bankIndex] = bank
	return nil
}

// LoadExampleData replaces the banks with the bundled example rates.
func (s *Session) LoadExampleData() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banks = calculations.ExampleBanks()
}

// Reset restores defaults and drops results.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.capital = calculations.DefaultCapital
	s.banks = calculations.InitialBanks()
	s.calcCapital = 0
	s.calcBanks = nil
	s.results = nil
}

func (s *Session) IsDataComplete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return validators.AreAllBanksComplete(s.cfg, s.banks)
}

// Calculate evaluates every bank with the current capital.
func (s *Session) Calculate() ([]calculations.BankEvaluation, error) {
	_, evaluations, err := s.CalculateWithCapital()
	return evaluations, err
}

// CalculateWithCapital is Calculate that also returns the capital the
// evaluations were computed with, read under the same lock.
func (s *Session) CalculateWithCapital() (float64, []calculations.BankEvaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !validators.AreAllBanksComplete(s.cfg, s.banks) {
		return 0, nil, ErrIncompleteData
	}
	evaluations := s.recalculateLocked()
	return s.calcCapital, evaluations, nil
}

func (s *Session) recalculateLocked() []calculations.BankEvaluation {
	s.calcCapital = s.capital
	s.calcBanks = cloneBanks(s.banks)
	s.results = calculations.Calculate(s.calcBanks, s.calcCapital)

	s.log.Debug().Float64("capital", s.calcCapital).Int("banks", len(s.calcBanks)).Msg("Calculated")
	return cloneEvaluations(s.results)
}

// CalculatedCapital returns the capital of the last calculation, 0 without results.
func (s *Session) CalculatedCapital() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calcCapital
}

func (s *Session) Results() []calculations.BankEvaluation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEvaluations(s.results)
}

func (s *Session) HasResults() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results) > 0
}

func (s *Session) BestInvestment() (calculations.BestInvestment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.results) == 0 {
		return calculations.BestInvestment{}, ErrNoResults
	}
	return calculations.FindBest(s.results)
}

func (s *Session) Ranking() []calculations.RankingEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return calculations.RankAll(s.results)
}

// SaveToHistory stores the last calculation together with the inputs that produced it.
func (s *Session) SaveToHistory(ctx context.Context) (history.Snapshot, error) {
	s.mu.RLock()
	if len(s.results) == 0 {
		s.mu.RUnlock()
		return history.Snapshot{}, ErrNoResults
	}
	snap, err := history.NewSnapshot(s.calcCapital, s.calcBanks, s.results, s.now())
	s.mu.RUnlock()
	if err != nil {
		return history.Snapshot{}, err
	}

	if err := s.history.Save(ctx, snap); err != nil {
		return history.Snapshot{}, err
	}
	return snap, nil
}

// LoadFromHistory overwrites capital and banks with a saved snapshot and
// recalculates. Stored evaluations are not reused. The returned capital is
// the one the evaluations were computed with.
func (s *Session) LoadFromHistory(ctx context.Context, id string) (float64, []calculations.BankEvaluation, error) {
	snap, err := s.history.LoadOne(ctx, id)
	if err != nil {
		return 0, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.capital = snap.Capital
	s.banks = cloneBanks(snap.Banks)

	s.log.Info().Str("id", id).Msg("Loaded calculation from history")
	evaluations := s.recalculateLocked()
	return s.calcCapital, evaluations, nil
}

func (s *Session) History(ctx context.Context) []history.Snapshot {
	return s.history.List(ctx)
}

func (s *Session) DeleteHistoryItem(ctx context.Context, id string) error {
	return s.history.DeleteOne(ctx, id)
}

func (s *Session) ClearHistory(ctx context.Context) error {
	return s.history.Clear(ctx)
}

func cloneBanks(banks []calculations.Bank) []calculations.Bank {
	if banks == nil {
		return nil
	}
	out := make([]calculations.Bank, len(banks))
	for i, b := range banks {
		out[i] = b.Clone()
	}
	return out
}

func cloneEvaluations(evals []calculations.BankEvaluation) []calculations.BankEvaluation {
	if evals == nil {
		return nil
	}
	out := make([]calculations.BankEvaluation, len(evals))
	for i, e := range evals {
		out[i] = e.Clone()
	}
	return out
}
