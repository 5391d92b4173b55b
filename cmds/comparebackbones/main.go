package main

import (
	"fmt"
	"log"

	arg "github.com/alexflint/go-arg"

	"github.com/beewatch/hivetune/errors"
	"github.com/beewatch/hivetune/experiment"
	"github.com/beewatch/hivetune/jsonutil"
	"github.com/beewatch/hivetune/search"
	"github.com/beewatch/hivetune/training"
)

func fail(err error) {
	if err != nil {
		log.Fatalln(err)
	}
}

// Prints the held-out metrics of every backbone side by side, so the
// three fine-tuned models can be compared after their sweeps finished.
func main() {
	args := struct {
		Dir       string `help:"directory holding test_results_<backbone>.json files"`
		Backbones []string
	}{
		Dir: ".",
	}
	arg.MustParse(&args)

	backbones := args.Backbones
	if len(backbones) == 0 {
		for _, b := range training.Backbones {
			backbones = append(backbones, string(b))
		}
	}

	fmt.Printf("%-18s %12s %12s %14s\n", "backbone", "loss", "ham_acc", "zero_one_acc")

	var errAcc error
	for _, b := range backbones {
		var m experiment.TestMetrics
		if err := jsonutil.DecodeFrom(search.TestResultsPath(args.Dir, b), &m); err != nil {
			errAcc = errors.Combine(errAcc, err)
			continue
		}
		fmt.Printf("%-18s %12.4f %12.4f %14.4f\n", b, m.Loss, m.HammingAcc, m.ZeroOneAcc)
	}
	fail(errAcc)
}
