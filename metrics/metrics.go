// Package metrics computes standard multi-label classification metrics
// over parallel matrices of ground-truth bits and predictions. Rows are
// examples, columns are label positions.
package metrics

import (
	"sort"

	"github.com/beewatch/hivetune/errors"
)

func checkShapes(truth, pred [][]float64) error {
	if len(truth) != len(pred) {
		return errors.Errorf("row count mismatch: %d truth vs %d predicted", len(truth), len(pred))
	}
	if len(truth) == 0 {
		return errors.Errorf("no examples")
	}
	for i := range truth {
		if len(truth[i]) != len(pred[i]) {
			return errors.Errorf("label count mismatch on row %d: %d vs %d", i, len(truth[i]), len(pred[i]))
		}
	}
	return nil
}

func positive(v float64) bool {
	return v >= 0.5
}

// HammingAccuracy is the fraction of individual label bits predicted
// correctly across all examples and label positions.
func HammingAccuracy(truth, pred [][]float64) (float64, error) {
	if err := checkShapes(truth, pred); err != nil {
		return 0, err
	}
	var correct, total int
	for i := range truth {
		for j := range truth[i] {
			if positive(truth[i][j]) == positive(pred[i][j]) {
				correct++
			}
			total++
		}
	}
	return float64(correct) / float64(total), nil
}

// ZeroOneAccuracy is the fraction of examples whose entire label vector
// is predicted exactly.
func ZeroOneAccuracy(truth, pred [][]float64) (float64, error) {
	if err := checkShapes(truth, pred); err != nil {
		return 0, err
	}
	var exact int
	for i := range truth {
		match := true
		for j := range truth[i] {
			if positive(truth[i][j]) != positive(pred[i][j]) {
				match = false
				break
			}
		}
		if match {
			exact++
		}
	}
	return float64(exact) / float64(len(truth)), nil
}

// PRF holds micro-averaged precision, recall and F1.
type PRF struct {
	Precision float64
	Recall    float64
	F1        float64
}

// MicroPRF pools true/false positives and negatives over every label
// position before computing precision, recall and F1.
func MicroPRF(truth, pred [][]float64) (PRF, error) {
	if err := checkShapes(truth, pred); err != nil {
		return PRF{}, err
	}
	var tp, fp, fn int
	for i := range truth {
		for j := range truth[i] {
			switch {
			case positive(pred[i][j]) && positive(truth[i][j]):
				tp++
			case positive(pred[i][j]):
				fp++
			case positive(truth[i][j]):
				fn++
			}
		}
	}

	var out PRF
	if tp+fp > 0 {
		out.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		out.Recall = float64(tp) / float64(tp+fn)
	}
	if out.Precision+out.Recall > 0 {
		out.F1 = 2 * out.Precision * out.Recall / (out.Precision + out.Recall)
	}
	return out, nil
}

// Confusion counts prediction outcomes for a single label position.
type Confusion struct {
	TP, FP, FN, TN int
}

// ConfusionMatrix returns one Confusion per label position.
func ConfusionMatrix(truth, pred [][]float64) ([]Confusion, error) {
	if err := checkShapes(truth, pred); err != nil {
		return nil, err
	}
	out := make([]Confusion, len(truth[0]))
	for i := range truth {
		for j := range truth[i] {
			switch {
			case positive(truth[i][j]) && positive(pred[i][j]):
				out[j].TP++
			case positive(truth[i][j]):
				out[j].FN++
			case positive(pred[i][j]):
				out[j].FP++
			default:
				out[j].TN++
			}
		}
	}
	return out, nil
}

// ROCPoint is one point on a micro-averaged ROC curve.
type ROCPoint struct {
	Threshold float64
	FPR       float64
	TPR       float64
}

// ROC computes the micro-averaged ROC curve by pooling every label bit
// and sweeping the score threshold over the observed scores. Points are
// ordered by increasing false positive rate.
func ROC(truth, scores [][]float64) ([]ROCPoint, error) {
	if err := checkShapes(truth, scores); err != nil {
		return nil, err
	}

	type bit struct {
		score float64
		pos   bool
	}
	var bits []bit
	var pos, neg int
	for i := range truth {
		for j := range truth[i] {
			b := bit{score: scores[i][j], pos: positive(truth[i][j])}
			if b.pos {
				pos++
			} else {
				neg++
			}
			bits = append(bits, b)
		}
	}
	if pos == 0 || neg == 0 {
		return nil, errors.Errorf("ROC needs both positive and negative labels")
	}

	sort.Slice(bits, func(i, j int) bool { return bits[i].score > bits[j].score })

	points := []ROCPoint{{Threshold: bits[0].score + 1}}
	var tp, fp int
	for i, b := range bits {
		if b.pos {
			tp++
		} else {
			fp++
		}
		// emit a point only at threshold boundaries
		if i+1 < len(bits) && bits[i+1].score == b.score {
			continue
		}
		points = append(points, ROCPoint{
			Threshold: b.score,
			FPR:       float64(fp) / float64(neg),
			TPR:       float64(tp) / float64(pos),
		})
	}
	return points, nil
}

// AUC integrates a ROC curve with the trapezoid rule.
func AUC(points []ROCPoint) float64 {
	var auc float64
	for i := 1; i < len(points); i++ {
		auc += (points[i].FPR - points[i-1].FPR) * (points[i].TPR + points[i-1].TPR) / 2
	}
	return auc
}
