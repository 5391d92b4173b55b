// Package experiment drives a full hyperparameter search for one
// backbone: split the dataset, sweep the grid, select and persist the
// winning configuration, retrain with it and evaluate on the held-out
// test split.
package experiment

import (
	"context"
	"log"

	"github.com/beewatch/hivetune/dataset"
	"github.com/beewatch/hivetune/errors"
	"github.com/beewatch/hivetune/jsonutil"
	"github.com/beewatch/hivetune/search"
	"github.com/beewatch/hivetune/track"
	"github.com/beewatch/hivetune/training"
	"github.com/beewatch/hivetune/transform"
)

// Config describes one experiment. Everything the driver persists goes
// under OutputDir; there is no implicit working-directory state.
type Config struct {
	Backbone  training.Backbone
	Grid      search.Grid
	Objective search.Objective
	Seed      int64
	SplitType dataset.SplitType
	OutputDir string
}

func (c Config) validate() error {
	if _, err := training.BackboneFromName(string(c.Backbone)); err != nil {
		return err
	}
	if c.Grid.Size() == 0 {
		return errors.Errorf("empty hyperparameter grid")
	}
	if !c.Objective.Valid() {
		return errors.Errorf("unknown objective %q", c.Objective)
	}
	if c.OutputDir == "" {
		return errors.Errorf("no output directory set")
	}
	return nil
}

// TestMetrics is the held-out evaluation persisted at the end of a run.
type TestMetrics struct {
	Loss       float64 `json:"final_test_loss"`
	HammingAcc float64 `json:"final_test_ham_acc"`
	ZeroOneAcc float64 `json:"final_test_zero_one_acc"`
}

// Driver owns the grid, the accumulated trial results and the selected
// best configuration. Models and image buffers stay with the trainer.
type Driver struct {
	cfg     Config
	trainer training.Trainer
	sink    track.Sink
}

// NewDriver validates the config and returns a Driver. A nil sink
// disables trial tracking.
func NewDriver(cfg Config, trainer training.Trainer, sink track.Sink) (Driver, error) {
	if err := cfg.validate(); err != nil {
		return Driver{}, errors.Wrapf(err, "invalid experiment config")
	}
	if sink == nil {
		sink = track.Nop{}
	}
	return Driver{cfg: cfg, trainer: trainer, sink: sink}, nil
}

// Run executes the whole experiment over the given examples and returns
// the winning configuration and the final held-out metrics. Trials run
// strictly one after another; a failed trial keeps its result row and
// the sweep moves on.
func (d Driver) Run(ctx context.Context, examples []dataset.Example) (search.RunResult, TestMetrics, error) {
	train, val, test, err := dataset.Split(examples, d.cfg.Seed, d.cfg.SplitType)
	if err != nil {
		return search.RunResult{}, TestMetrics{}, err
	}
	log.Printf("split %d examples into %d train / %d validation / %d test",
		len(examples), len(train), len(val), len(test))

	points := d.cfg.Grid.Enumerate()
	results := make([]search.RunResult, 0, len(points))
	for i, point := range points {
		log.Printf("trial %d/%d: %s", i+1, len(points), point)
		res := search.RunTrial(ctx, point, d.cfg.Backbone, d.cfg.Seed, d.trainer, train, val)
		if res.Failed() {
			log.Printf("trial %d/%d failed: %s", i+1, len(points), res.Error)
		}
		if err := d.sink.TrialDone(string(d.cfg.Backbone), i, res); err != nil {
			log.Println("unable to track trial:", err)
		}
		results = append(results, res)
	}

	csvPath := search.ResultsCSVPath(d.cfg.OutputDir, string(d.cfg.Backbone))
	if err := search.WriteResultsCSV(csvPath, results); err != nil {
		return search.RunResult{}, TestMetrics{}, err
	}

	best, err := search.SelectBest(results, d.cfg.Objective)
	if err != nil {
		return search.RunResult{}, TestMetrics{}, err
	}
	log.Printf("best configuration: %s", best.Point())

	if err := search.SaveBestParams(search.BestParamsPath(d.cfg.OutputDir, string(d.cfg.Backbone)), best); err != nil {
		return search.RunResult{}, TestMetrics{}, err
	}

	final, err := d.RetrainAndEvaluate(ctx, best, train, val, test)
	if err != nil {
		return search.RunResult{}, TestMetrics{}, err
	}
	return best, final, nil
}

// RetrainAndEvaluate retrains a fresh model with the winning
// configuration and evaluates it on the held-out test split, persisting
// the final metrics. A best configuration naming an unknown transform is
// rejected before any training starts.
func (d Driver) RetrainAndEvaluate(ctx context.Context, best search.RunResult,
	train, val, test []dataset.Example) (TestMetrics, error) {

	variant, err := transform.FromName(best.Transform)
	if err != nil {
		return TestMetrics{}, errors.Wrapf(err, "unable to rebuild training pipeline")
	}

	params := training.Params{
		Backbone:     d.cfg.Backbone,
		Transform:    variant,
		BatchSize:    best.BatchSize,
		Epochs:       best.Epochs,
		LearningRate: best.LR,
		Seed:         d.cfg.Seed,
	}
	if err := params.Validate(); err != nil {
		return TestMetrics{}, err
	}

	log.Printf("retraining %s with %s", d.cfg.Backbone, best.Point())
	res, err := d.trainer.Train(ctx, params, train, val)
	if err != nil {
		return TestMetrics{}, errors.Wrapf(err, "retrain failed")
	}

	m, err := d.trainer.Evaluate(ctx, params, res.Checkpoint, test)
	if err != nil {
		return TestMetrics{}, errors.Wrapf(err, "final evaluation failed")
	}

	final := TestMetrics{Loss: m.Loss, HammingAcc: m.HammingAcc, ZeroOneAcc: m.ZeroOneAcc}
	path := search.TestResultsPath(d.cfg.OutputDir, string(d.cfg.Backbone))
	if err := jsonutil.EncodeToFile(path, final); err != nil {
		return TestMetrics{}, err
	}
	log.Printf("final test metrics: loss=%.4f ham_acc=%.4f zero_one_acc=%.4f",
		final.Loss, final.HammingAcc, final.ZeroOneAcc)

	return final, nil
}
