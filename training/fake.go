package training

import (
	"context"
	"fmt"

	"github.com/beewatch/hivetune/dataset"
	"github.com/beewatch/hivetune/errors"
)

// Fake is an in-memory Trainer for tests. TrainFunc and EvaluateFunc may
// be nil, in which case zero-valued metrics are returned.
type Fake struct {
	TrainFunc    func(p Params) (Result, error)
	EvaluateFunc func(p Params, checkpoint string) (Metrics, error)

	TrainCalls          []Params
	EvaluateCalls       []Params
	EvaluateCheckpoints []string
}

// Train implements Trainer.
func (f *Fake) Train(ctx context.Context, p Params, train, val []dataset.Example) (Result, error) {
	f.TrainCalls = append(f.TrainCalls, p)
	if f.TrainFunc == nil {
		return Result{
			Checkpoint: fmt.Sprintf("fake-checkpoint-%d", len(f.TrainCalls)),
			Epochs:     make([]EpochMetrics, p.Epochs),
		}, nil
	}
	return f.TrainFunc(p)
}

// Evaluate implements Trainer.
func (f *Fake) Evaluate(ctx context.Context, p Params, checkpoint string, test []dataset.Example) (Metrics, error) {
	f.EvaluateCalls = append(f.EvaluateCalls, p)
	f.EvaluateCheckpoints = append(f.EvaluateCheckpoints, checkpoint)
	if f.EvaluateFunc == nil {
		return Metrics{}, nil
	}
	return f.EvaluateFunc(p, checkpoint)
}

// AlwaysFailing returns a Fake whose runs all fail with the given message.
func AlwaysFailing(msg string) *Fake {
	return &Fake{
		TrainFunc: func(Params) (Result, error) {
			return Result{}, errors.Errorf("%s", msg)
		},
		EvaluateFunc: func(Params, string) (Metrics, error) {
			return Metrics{}, errors.Errorf("%s", msg)
		},
	}
}
