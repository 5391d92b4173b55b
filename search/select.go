package search

import (
	"github.com/beewatch/hivetune/errors"
)

// Objective names the validation metric that picks the winning grid
// point. The notebooks never settled on one, so it stays configurable.
type Objective string

const (
	// MaxHammingAcc selects the highest validation Hamming accuracy.
	MaxHammingAcc Objective = "ham_acc"
	// MaxZeroOneAcc selects the highest exact-match accuracy.
	MaxZeroOneAcc Objective = "zero_one_acc"
	// MinLoss selects the lowest validation loss.
	MinLoss Objective = "loss"
)

// DefaultObjective ...
const DefaultObjective = MaxHammingAcc

// Objectives lists every supported selection objective.
var Objectives = []Objective{MaxHammingAcc, MaxZeroOneAcc, MinLoss}

// Valid reports whether o is a known objective.
func (o Objective) Valid() bool {
	for _, known := range Objectives {
		if o == known {
			return true
		}
	}
	return false
}

// better reports whether a beats b under the objective. Both results
// must be non-failed.
func (o Objective) better(a, b RunResult) bool {
	switch o {
	case MaxZeroOneAcc:
		return a.FinalZeroOneAcc > b.FinalZeroOneAcc
	case MinLoss:
		return a.FinalLoss < b.FinalLoss
	default:
		return a.FinalHammingAcc > b.FinalHammingAcc
	}
}

// ErrNoValidResults is returned by SelectBest when every trial of the
// sweep failed.
var ErrNoValidResults = errors.New("no valid results: every trial failed")

// SelectBest scans the sweep results, skipping failed trials, and
// returns the winner under the objective. When all trials failed it
// returns ErrNoValidResults rather than a NaN-valued winner.
func SelectBest(results []RunResult, obj Objective) (RunResult, error) {
	if !obj.Valid() {
		return RunResult{}, errors.Errorf("unknown objective %q", obj)
	}

	var best RunResult
	var found bool
	for _, r := range results {
		if r.Failed() {
			continue
		}
		if !found || obj.better(r, best) {
			best = r
			found = true
		}
	}
	if !found {
		return RunResult{}, ErrNoValidResults
	}
	return best, nil
}
