package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beewatch/hivetune/dataset"
	"github.com/beewatch/hivetune/training"
)

func TestRunTrialSuccess(t *testing.T) {
	trainer := &training.Fake{
		TrainFunc: func(p training.Params) (training.Result, error) {
			return training.Result{
				Epochs: make([]training.EpochMetrics, p.Epochs),
				Final:  training.Metrics{Loss: 0.3, HammingAcc: 0.9, ZeroOneAcc: 0.5},
			}, nil
		},
	}

	point := DefaultGrid().Enumerate()[0]
	res := RunTrial(context.Background(), point, training.ResNet18, 42, trainer, nil, nil)

	require.Empty(t, res.Error)
	assert.False(t, res.Failed())
	assert.Equal(t, 0.3, res.FinalLoss)
	assert.Equal(t, 0.9, res.FinalHammingAcc)
	assert.Equal(t, 0.5, res.FinalZeroOneAcc)
	assert.Equal(t, point, res.Point())

	require.Len(t, trainer.TrainCalls, 1)
	assert.Equal(t, point.BatchSize, trainer.TrainCalls[0].BatchSize)
	assert.Equal(t, point.Transform, trainer.TrainCalls[0].Transform)
}

func TestRunTrialFailureDoesNotPropagate(t *testing.T) {
	trainer := training.AlwaysFailing("CUDA out of memory")

	grid := DefaultGrid()
	var results []RunResult
	for _, point := range grid.Enumerate() {
		results = append(results, RunTrial(context.Background(), point, training.DenseNet201, 42, trainer, nil, nil))
	}

	// one row per grid point even when every trial fails
	require.Len(t, results, grid.Size())
	for _, res := range results {
		assert.True(t, res.Failed())
		assert.Contains(t, res.Error, "CUDA out of memory")
	}
}

func TestRunTrialRecoversPanic(t *testing.T) {
	trainer := &training.Fake{
		TrainFunc: func(training.Params) (training.Result, error) {
			panic("worker crashed")
		},
	}

	res := RunTrial(context.Background(), DefaultGrid().Enumerate()[0],
		training.EfficientNetB0, 42, trainer, []dataset.Example{}, nil)

	assert.True(t, res.Failed())
	assert.Contains(t, res.Error, "worker crashed")
}
