package main

import (
	"fmt"
	"log"

	arg "github.com/alexflint/go-arg"

	"github.com/beewatch/hivetune/dataset"
	"github.com/beewatch/hivetune/jsonutil"
	"github.com/beewatch/hivetune/metrics"
)

func fail(err error) {
	if err != nil {
		log.Fatalln(err)
	}
}

// predictions is the dump the training worker writes after its held-out
// evaluation pass: ground-truth label bits and predicted probabilities,
// one row per test example.
type predictions struct {
	Truth  [][]float64 `json:"truth"`
	Scores [][]float64 `json:"scores"`
}

// Prints the full multi-label report for a predictions dump: bitwise and
// exact-match accuracy, micro precision/recall/F1, per-feature confusion
// counts and the micro-averaged AUC.
func main() {
	args := struct {
		Predictions string `arg:"required" help:"predictions JSON written by the worker"`
	}{}
	arg.MustParse(&args)

	var preds predictions
	fail(jsonutil.DecodeFrom(args.Predictions, &preds))

	ham, err := metrics.HammingAccuracy(preds.Truth, preds.Scores)
	fail(err)
	zeroOne, err := metrics.ZeroOneAccuracy(preds.Truth, preds.Scores)
	fail(err)
	prf, err := metrics.MicroPRF(preds.Truth, preds.Scores)
	fail(err)

	fmt.Printf("examples:       %d\n", len(preds.Truth))
	fmt.Printf("hamming acc:    %.4f\n", ham)
	fmt.Printf("zero-one acc:   %.4f\n", zeroOne)
	fmt.Printf("precision:      %.4f (micro)\n", prf.Precision)
	fmt.Printf("recall:         %.4f (micro)\n", prf.Recall)
	fmt.Printf("f1:             %.4f (micro)\n", prf.F1)

	if points, err := metrics.ROC(preds.Truth, preds.Scores); err != nil {
		log.Println("skipping AUC:", err)
	} else {
		fmt.Printf("auc:            %.4f (micro)\n", metrics.AUC(points))
	}

	cm, err := metrics.ConfusionMatrix(preds.Truth, preds.Scores)
	fail(err)

	fmt.Printf("\n%-16s %6s %6s %6s %6s\n", "feature", "tp", "fp", "fn", "tn")
	for j, c := range cm {
		name := fmt.Sprintf("label_%d", j)
		if j < len(dataset.FeatureColumns) {
			name = dataset.FeatureColumns[j]
		}
		fmt.Printf("%-16s %6d %6d %6d %6d\n", name, c.TP, c.FP, c.FN, c.TN)
	}
}
