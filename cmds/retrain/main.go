package main

import (
	"context"
	"log"
	"runtime"

	arg "github.com/alexflint/go-arg"

	"github.com/beewatch/hivetune/dataset"
	"github.com/beewatch/hivetune/experiment"
	"github.com/beewatch/hivetune/search"
	"github.com/beewatch/hivetune/training"
)

func fail(err error) {
	if err != nil {
		log.Fatalln(err)
	}
}

// Reruns only the tail of an experiment: load a persisted best
// configuration, retrain a fresh model with it and evaluate on the
// held-out test split. The dataset split is rebuilt from the same seed,
// so the test examples are the ones the original sweep never trained on.
func main() {
	args := struct {
		Annotations string `arg:"required"`
		ImagesDir   string `arg:"required"`
		Backbone    string `arg:"required"`
		TrainerBin  string `arg:"required"`

		OutputDir string
		Seed      int64
		SplitType dataset.SplitType
		NumGo     int
	}{
		OutputDir: ".",
		Seed:      42,
		SplitType: dataset.RandomSplit,
		NumGo:     runtime.NumCPU(),
	}
	arg.MustParse(&args)

	backbone := training.MustBackboneFromName(args.Backbone)

	best, err := search.LoadBestParams(search.BestParamsPath(args.OutputDir, args.Backbone))
	fail(err)
	log.Printf("loaded best configuration: %s", best.Point())

	examples, stats, err := dataset.Load(args.Annotations, args.ImagesDir, args.NumGo)
	fail(err)
	if stats.Kept == 0 {
		log.Fatalln("no usable examples in", args.Annotations)
	}

	train, val, test, err := dataset.Split(examples, args.Seed, args.SplitType)
	fail(err)

	driver, err := experiment.NewDriver(experiment.Config{
		Backbone:  backbone,
		Grid:      search.DefaultGrid(),
		Objective: search.DefaultObjective,
		Seed:      args.Seed,
		SplitType: args.SplitType,
		OutputDir: args.OutputDir,
	}, training.Subprocess{Bin: args.TrainerBin}, nil)
	fail(err)

	final, err := driver.RetrainAndEvaluate(context.Background(), best, train, val, test)
	fail(err)

	log.Printf("held-out metrics: loss=%.4f ham_acc=%.4f zero_one_acc=%.4f",
		final.Loss, final.HammingAcc, final.ZeroOneAcc)
}
