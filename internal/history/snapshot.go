// Package history persists calculation snapshots in a key-value store as a
// single bounded list, newest first.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cloud-ru/mcp-deposits-go/internal/calculations"
)

// SchemaVersion is written into every new snapshot. Records without a version
// (written before versioning existed) decode as version 0.
const SchemaVersion = 1

// TimestampLayout matches ISO-8601 with millisecond precision in UTC.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Snapshot is one saved calculation: inputs plus the results computed from them.
type Snapshot struct {
	Version     int                           `json:"version,omitempty"`
	ID          string                        `json:"id"`
	Timestamp   string                        `json:"timestamp"`
	Capital     float64                       `json:"capital"`
	Banks       []calculations.Bank           `json:"banks"`
	Evaluations []calculations.BankEvaluation `json:"evaluations"`
}

// NewSnapshot builds a snapshot with a time-ordered id. Banks and evaluations
// are deep-copied so later edits by the caller do not leak into history.
func NewSnapshot(capital float64, banks []calculations.Bank, evaluations []calculations.BankEvaluation, now time.Time) (Snapshot, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to generate snapshot id: %w", err)
	}

	s := Snapshot{
		Version:     SchemaVersion,
		ID:          id.String(),
		Timestamp:   now.UTC().Format(TimestampLayout),
		Capital:     capital,
		Banks:       banks,
		Evaluations: evaluations,
	}
	return s.Clone(), nil
}

// Time parses Timestamp.
func (s Snapshot) Time() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s.Timestamp)
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.Banks != nil {
		out.Banks = make([]calculations.Bank, len(s.Banks))
		for i, b := range s.Banks {
			out.Banks[i] = b.Clone()
		}
	}
	if s.Evaluations != nil {
		out.Evaluations = make([]calculations.BankEvaluation, len(s.Evaluations))
		for i, e := range s.Evaluations {
			out.Evaluations[i] = e.Clone()
		}
	}
	return out
}

// UnmarshalJSON also accepts the legacy "results" field in place of "evaluations".
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	type plain Snapshot
	aux := struct {
		*plain
		Results []calculations.BankEvaluation `json:"results"`
	}{plain: (*plain)(s)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if s.Evaluations == nil && aux.Results != nil {
		s.Evaluations = aux.Results
	}
	return nil
}
