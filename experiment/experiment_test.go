package experiment

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beewatch/hivetune/dataset"
	"github.com/beewatch/hivetune/search"
	"github.com/beewatch/hivetune/training"
	"github.com/beewatch/hivetune/transform"
)

func makeExamples(n int) []dataset.Example {
	examples := make([]dataset.Example, 0, n)
	for i := 0; i < n; i++ {
		examples = append(examples, dataset.Example{
			Path:   fmt.Sprintf("frames/frame_%04d.jpg", i),
			Labels: make([]float64, dataset.NumFeatures),
		})
	}
	return examples
}

func smallGrid() search.Grid {
	return search.Grid{
		BatchSizes:    []int{16, 32},
		Epochs:        []int{5},
		LearningRates: []float64{0.001, 0.01},
		Transforms:    []transform.Variant{transform.Baseline, transform.TrivialAugment},
	}
}

func testConfig(t *testing.T) (Config, func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "experiment")
	require.NoError(t, err)
	return Config{
		Backbone:  training.ResNet18,
		Grid:      smallGrid(),
		Objective: search.MaxHammingAcc,
		Seed:      42,
		SplitType: dataset.RandomSplit,
		OutputDir: dir,
	}, func() { os.RemoveAll(dir) }
}

// rigged scores one fake training run: the winning combination gets
// Hamming accuracy 0.91, everything else stays below it.
func rigged(p training.Params) (training.Result, error) {
	ham := 0.5
	if p.BatchSize == 32 && p.LearningRate == 0.001 && p.Transform == transform.TrivialAugment {
		ham = 0.91
	}
	return training.Result{
		Checkpoint: fmt.Sprintf("checkpoints/%s_bs%d.pt", p.Transform, p.BatchSize),
		Epochs:     make([]training.EpochMetrics, p.Epochs),
		Final:      training.Metrics{Loss: 1 - ham, HammingAcc: ham, ZeroOneAcc: ham / 2},
	}, nil
}

func TestRunSelectsRiggedWinner(t *testing.T) {
	cfg, cleanup := testConfig(t)
	defer cleanup()

	trainer := &training.Fake{
		TrainFunc: rigged,
		EvaluateFunc: func(training.Params, string) (training.Metrics, error) {
			return training.Metrics{Loss: 0.2, HammingAcc: 0.89, ZeroOneAcc: 0.4}, nil
		},
	}

	driver, err := NewDriver(cfg, trainer, nil)
	require.NoError(t, err)

	best, final, err := driver.Run(context.Background(), makeExamples(100))
	require.NoError(t, err)

	assert.Equal(t, 32, best.BatchSize)
	assert.Equal(t, 5, best.Epochs)
	assert.Equal(t, 0.001, best.LR)
	assert.Equal(t, string(transform.TrivialAugment), best.Transform)
	assert.Equal(t, 0.91, best.FinalHammingAcc)

	// 8 sweep trials plus the final retrain, one evaluation pass
	assert.Len(t, trainer.TrainCalls, 9)
	assert.Len(t, trainer.EvaluateCalls, 1)
	assert.Equal(t, 0.89, final.HammingAcc)

	// the evaluation must score the checkpoint the retrain produced
	require.Len(t, trainer.EvaluateCheckpoints, 1)
	assert.Equal(t, "checkpoints/trivial_augment_bs32.pt", trainer.EvaluateCheckpoints[0])

	// all three artifacts are persisted under the output dir
	backbone := string(cfg.Backbone)
	for _, path := range []string{
		search.ResultsCSVPath(cfg.OutputDir, backbone),
		search.BestParamsPath(cfg.OutputDir, backbone),
		search.TestResultsPath(cfg.OutputDir, backbone),
	} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}

	results, err := search.ReadResultsCSV(search.ResultsCSVPath(cfg.OutputDir, backbone))
	require.NoError(t, err)
	assert.Len(t, results, cfg.Grid.Size())

	loaded, err := search.LoadBestParams(search.BestParamsPath(cfg.OutputDir, backbone))
	require.NoError(t, err)
	assert.Equal(t, best, loaded)
}

func TestRunAllTrialsFailed(t *testing.T) {
	cfg, cleanup := testConfig(t)
	defer cleanup()

	driver, err := NewDriver(cfg, training.AlwaysFailing("out of memory"), nil)
	require.NoError(t, err)

	_, _, err = driver.Run(context.Background(), makeExamples(100))
	require.Equal(t, search.ErrNoValidResults, err)

	// the sweep still completed and persisted one row per grid point
	results, readErr := search.ReadResultsCSV(search.ResultsCSVPath(cfg.OutputDir, string(cfg.Backbone)))
	require.NoError(t, readErr)
	assert.Len(t, results, cfg.Grid.Size())
}

func TestRetrainUnknownTransform(t *testing.T) {
	cfg, cleanup := testConfig(t)
	defer cleanup()

	driver, err := NewDriver(cfg, &training.Fake{}, nil)
	require.NoError(t, err)

	best := search.RunResult{
		Transform: "unknown_transform",
		BatchSize: 32,
		Epochs:    5,
		LR:        0.001,
	}
	_, err = driver.RetrainAndEvaluate(context.Background(), best, nil, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized transform")
}

func TestNewDriverValidation(t *testing.T) {
	cfg, cleanup := testConfig(t)
	defer cleanup()

	bad := cfg
	bad.Backbone = "vgg16"
	_, err := NewDriver(bad, &training.Fake{}, nil)
	require.Error(t, err)

	bad = cfg
	bad.Grid = search.Grid{}
	_, err = NewDriver(bad, &training.Fake{}, nil)
	require.Error(t, err)

	bad = cfg
	bad.Objective = "auc"
	_, err = NewDriver(bad, &training.Fake{}, nil)
	require.Error(t, err)

	bad = cfg
	bad.OutputDir = ""
	_, err = NewDriver(bad, &training.Fake{}, nil)
	require.Error(t, err)
}
