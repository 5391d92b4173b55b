package training

import (
	"context"

	"github.com/beewatch/hivetune/dataset"
	"github.com/beewatch/hivetune/errors"
	"github.com/beewatch/hivetune/transform"
)

// Params fully describes one training run. A fresh model is initialized
// for every call carrying a Params value, so runs are independent of the
// order they execute in.
type Params struct {
	Backbone     Backbone
	Transform    transform.Variant
	BatchSize    int
	Epochs       int
	LearningRate float64
	Seed         int64
}

// Validate checks that every field is usable before a run starts.
func (p Params) Validate() error {
	if _, err := BackboneFromName(string(p.Backbone)); err != nil {
		return err
	}
	if _, err := transform.FromName(string(p.Transform)); err != nil {
		return err
	}
	if p.BatchSize <= 0 {
		return errors.Errorf("batch size must be positive, got %d", p.BatchSize)
	}
	if p.Epochs <= 0 {
		return errors.Errorf("epochs must be positive, got %d", p.Epochs)
	}
	if p.LearningRate <= 0 {
		return errors.Errorf("learning rate must be positive, got %g", p.LearningRate)
	}
	return nil
}

// Metrics is one evaluation pass over a dataset split.
type Metrics struct {
	Loss       float64 `json:"loss"`
	HammingAcc float64 `json:"ham_acc"`
	ZeroOneAcc float64 `json:"zero_one_acc"`
}

// EpochMetrics is the per-epoch progress reported by the worker.
type EpochMetrics struct {
	TrainLoss     float64 `json:"train_loss"`
	ValLoss       float64 `json:"val_loss"`
	ValHammingAcc float64 `json:"val_ham_acc"`
	ValZeroOneAcc float64 `json:"val_zero_one_acc"`
}

// Result is the outcome of a completed training run. Final holds the
// metrics of the last epoch's validation pass. Checkpoint identifies the
// trained model so a later evaluation can be bound to exactly this run.
type Result struct {
	Checkpoint string         `json:"checkpoint"`
	Epochs     []EpochMetrics `json:"epochs"`
	Final      Metrics        `json:"final"`
}

// Trainer is the external collaborator that owns models, weights and the
// optimization loop. The driver only hands it parameters and file lists.
// Evaluate takes the checkpoint returned by the Train call whose model it
// should score; it never re-derives a model from parameters alone.
type Trainer interface {
	Train(ctx context.Context, p Params, train, val []dataset.Example) (Result, error)
	Evaluate(ctx context.Context, p Params, checkpoint string, test []dataset.Example) (Metrics, error)
}
