package main

import (
	"context"
	"log"
	"os"
	"runtime"

	arg "github.com/alexflint/go-arg"

	"github.com/beewatch/hivetune/dataset"
	"github.com/beewatch/hivetune/experiment"
	"github.com/beewatch/hivetune/search"
	"github.com/beewatch/hivetune/track"
	"github.com/beewatch/hivetune/training"
	"github.com/beewatch/hivetune/transform"
)

func fail(err error) {
	if err != nil {
		log.Fatalln(err)
	}
}

func main() {
	args := struct {
		Annotations string `arg:"required" help:"annotations CSV mapping filename to feature flags"`
		ImagesDir   string `arg:"required" help:"directory holding the frame images"`
		Backbone    string `arg:"required" help:"densenet201, efficientnet_b0 or resnet18"`
		TrainerBin  string `arg:"required" help:"external training worker executable"`

		OutputDir string
		Seed      int64
		SplitType dataset.SplitType
		Objective search.Objective
		NumGo     int

		BatchSizes    []int
		Epochs        []int
		LearningRates []float64
		Transforms    []string

		SegmentToken string `help:"segment write token for per-trial tracking"`
	}{
		OutputDir: ".",
		Seed:      42,
		SplitType: dataset.RandomSplit,
		Objective: search.DefaultObjective,
		NumGo:     runtime.NumCPU(),
	}
	arg.MustParse(&args)

	backbone := training.MustBackboneFromName(args.Backbone)

	grid := search.DefaultGrid()
	if len(args.BatchSizes) > 0 {
		grid.BatchSizes = args.BatchSizes
	}
	if len(args.Epochs) > 0 {
		grid.Epochs = args.Epochs
	}
	if len(args.LearningRates) > 0 {
		grid.LearningRates = args.LearningRates
	}
	if len(args.Transforms) > 0 {
		grid.Transforms = nil
		for _, name := range args.Transforms {
			grid.Transforms = append(grid.Transforms, transform.MustFromName(name))
		}
	}

	fail(os.MkdirAll(args.OutputDir, os.ModePerm))

	examples, stats, err := dataset.Load(args.Annotations, args.ImagesDir, args.NumGo)
	fail(err)
	if stats.Kept == 0 {
		log.Fatalln("no usable examples in", args.Annotations)
	}

	var sink track.Sink = track.Nop{}
	if args.SegmentToken != "" {
		client, err := track.NewClient(args.SegmentToken, args.Backbone)
		fail(err)
		defer client.Close()
		sink = client
	}

	trainer := training.Subprocess{Bin: args.TrainerBin}

	driver, err := experiment.NewDriver(experiment.Config{
		Backbone:  backbone,
		Grid:      grid,
		Objective: args.Objective,
		Seed:      args.Seed,
		SplitType: args.SplitType,
		OutputDir: args.OutputDir,
	}, trainer, sink)
	fail(err)

	log.Printf("sweeping %d grid points for %s", grid.Size(), backbone)
	best, final, err := driver.Run(context.Background(), examples)
	fail(err)

	log.Printf("done: best %s, held-out ham_acc=%.4f", best.Point(), final.HammingAcc)
}
