package reconciler

import (
	"strings"

	"github.com/agentstation/livingset/pkg/dataset"
)

// StrategyType represents the type of reconciliation strategy.
type StrategyType string

// String returns the string representation of a strategy type.
func (s StrategyType) String() string {
	return string(s)
}

// Name returns the name of the strategy type.
func (s StrategyType) Name() string {
	words := strings.Split(s.String(), "-")
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

const (
	// StrategyTypeLatestWins replaces an overlapping record with the snapshot's.
	StrategyTypeLatestWins StrategyType = "latest-wins"
	// StrategyTypeFillBlanks takes the snapshot's record but keeps living
	// values where the snapshot cell is blank.
	StrategyTypeFillBlanks StrategyType = "fill-blanks"
)

// Strategy decides the merged value of a key present in both datasets.
type Strategy interface {
	// Type returns the strategy type
	Type() StrategyType

	// Description returns a human-readable description
	Description() string

	// Resolve returns the merged record. latestColumns is the snapshot's
	// header; cells of other columns have no fresh observation.
	Resolve(living, latest dataset.Record, latestColumns []string) dataset.Record
}

type baseStrategy struct {
	typ         StrategyType
	description string
}

// Type returns the strategy type.
func (s *baseStrategy) Type() StrategyType {
	return s.typ
}

// Description returns a human-readable description.
func (s *baseStrategy) Description() string {
	return s.description
}

// LatestWinsStrategy is the default: the snapshot's cells replace the living
// record's. Columns the snapshot does not carry keep their living values.
type LatestWinsStrategy struct {
	baseStrategy
}

// NewLatestWinsStrategy creates the default strategy.
func NewLatestWinsStrategy() Strategy {
	return &LatestWinsStrategy{
		baseStrategy: baseStrategy{
			typ:         StrategyTypeLatestWins,
			description: "Snapshot values replace living values; columns absent from the snapshot are kept",
		},
	}
}

// Resolve implements Strategy.
func (s *LatestWinsStrategy) Resolve(living, latest dataset.Record, latestColumns []string) dataset.Record {
	out := living.Clone()
	for _, c := range latestColumns {
		out[c] = latest[c]
	}
	return out
}

// FillBlanksStrategy keeps a living value when the snapshot's cell is blank.
type FillBlanksStrategy struct {
	baseStrategy
}

// NewFillBlanksStrategy creates a strategy that never blanks a known value.
func NewFillBlanksStrategy() Strategy {
	return &FillBlanksStrategy{
		baseStrategy: baseStrategy{
			typ:         StrategyTypeFillBlanks,
			description: "Snapshot values replace living values unless the snapshot cell is blank",
		},
	}
}

// Resolve implements Strategy.
func (s *FillBlanksStrategy) Resolve(living, latest dataset.Record, latestColumns []string) dataset.Record {
	out := living.Clone()
	for _, c := range latestColumns {
		if v := latest[c]; strings.TrimSpace(v) != "" {
			out[c] = v
		}
	}
	return out
}

// StrategyByType returns the strategy registered under t.
func StrategyByType(t StrategyType) (Strategy, bool) {
	switch t {
	case StrategyTypeLatestWins, "":
		return NewLatestWinsStrategy(), true
	case StrategyTypeFillBlanks:
		return NewFillBlanksStrategy(), true
	default:
		return nil, false
	}
}
