package search

import (
	"context"
	"fmt"
	"math"

	"github.com/beewatch/hivetune/dataset"
	"github.com/beewatch/hivetune/training"
	"github.com/beewatch/hivetune/transform"
)

// RunResult records the outcome of one grid point. A failed trial keeps
// its row with NaN metrics and the failure message, so a sweep always
// yields exactly one row per point.
type RunResult struct {
	Transform string  `csv:"transform" json:"transform"`
	BatchSize int     `csv:"batch_size" json:"batch_size"`
	Epochs    int     `csv:"epochs" json:"epochs"`
	LR        float64 `csv:"lr" json:"lr"`

	FinalLoss       float64 `csv:"final_test_loss" json:"final_test_loss"`
	FinalHammingAcc float64 `csv:"final_test_ham_acc" json:"final_test_ham_acc"`
	FinalZeroOneAcc float64 `csv:"final_test_zero_one_acc" json:"final_test_zero_one_acc"`

	Error string `csv:"error" json:"-"`
}

// Point reconstructs the grid point the result was produced from.
func (r RunResult) Point() Point {
	return Point{
		BatchSize:    r.BatchSize,
		Epochs:       r.Epochs,
		LearningRate: r.LR,
		Transform:    transform.Variant(r.Transform),
	}
}

// Failed reports whether the trial recorded no usable metrics.
func (r RunResult) Failed() bool {
	return math.IsNaN(r.FinalHammingAcc)
}

// RunTrial trains one grid point and records its final validation
// metrics. It never propagates a trainer failure: errors and panics are
// captured on the result so the sweep can continue with the next point.
func RunTrial(ctx context.Context, point Point, backbone training.Backbone, seed int64,
	trainer training.Trainer, train, val []dataset.Example) (res RunResult) {

	res = RunResult{
		Transform:       string(point.Transform),
		BatchSize:       point.BatchSize,
		Epochs:          point.Epochs,
		LR:              point.LearningRate,
		FinalLoss:       math.NaN(),
		FinalHammingAcc: math.NaN(),
		FinalZeroOneAcc: math.NaN(),
	}

	defer func() {
		if r := recover(); r != nil {
			res.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	params := training.Params{
		Backbone:     backbone,
		Transform:    point.Transform,
		BatchSize:    point.BatchSize,
		Epochs:       point.Epochs,
		LearningRate: point.LearningRate,
		Seed:         seed,
	}

	result, err := trainer.Train(ctx, params, train, val)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.FinalLoss = result.Final.Loss
	res.FinalHammingAcc = result.Final.HammingAcc
	res.FinalZeroOneAcc = result.Final.ZeroOneAcc
	return res
}
