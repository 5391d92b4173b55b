package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	truth = [][]float64{
		{1, 0, 1},
		{0, 1, 0},
		{1, 1, 1},
	}
	pred = [][]float64{
		{1, 0, 1}, // exact
		{0, 0, 0}, // one bit wrong
		{1, 1, 0}, // one bit wrong
	}
)

func TestHammingAccuracy(t *testing.T) {
	acc, err := HammingAccuracy(truth, pred)
	require.NoError(t, err)
	assert.InDelta(t, 7.0/9, acc, 1e-12)
}

func TestZeroOneAccuracy(t *testing.T) {
	acc, err := ZeroOneAccuracy(truth, pred)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3, acc, 1e-12)
}

func TestMicroPRF(t *testing.T) {
	prf, err := MicroPRF(truth, pred)
	require.NoError(t, err)
	// tp=4, fp=0, fn=2
	assert.InDelta(t, 1.0, prf.Precision, 1e-12)
	assert.InDelta(t, 4.0/6, prf.Recall, 1e-12)
	assert.InDelta(t, 2*1.0*(4.0/6)/(1.0+4.0/6), prf.F1, 1e-12)
}

func TestMicroPRFNoPositives(t *testing.T) {
	prf, err := MicroPRF([][]float64{{0, 0}}, [][]float64{{0, 0}})
	require.NoError(t, err)
	assert.Zero(t, prf.Precision)
	assert.Zero(t, prf.Recall)
	assert.Zero(t, prf.F1)
}

func TestConfusionMatrix(t *testing.T) {
	cm, err := ConfusionMatrix(truth, pred)
	require.NoError(t, err)
	require.Len(t, cm, 3)

	assert.Equal(t, Confusion{TP: 2, TN: 1}, cm[0])
	assert.Equal(t, Confusion{TP: 1, FN: 1, TN: 1}, cm[1])
	assert.Equal(t, Confusion{TP: 1, FN: 1, TN: 1}, cm[2])
}

func TestShapeMismatch(t *testing.T) {
	_, err := HammingAccuracy(truth, pred[:2])
	require.Error(t, err)

	_, err = ZeroOneAccuracy([][]float64{{1, 0}}, [][]float64{{1}})
	require.Error(t, err)

	_, err = HammingAccuracy(nil, nil)
	require.Error(t, err)
}

func TestROCAndAUCPerfect(t *testing.T) {
	scores := [][]float64{
		{0.9, 0.1, 0.8},
		{0.2, 0.7, 0.3},
		{0.95, 0.85, 0.75},
	}
	points, err := ROC(truth, scores)
	require.NoError(t, err)
	// every positive bit scores above every negative bit
	assert.InDelta(t, 1.0, AUC(points), 1e-12)
}

func TestROCAndAUCRandom(t *testing.T) {
	// scores identical for all bits: AUC collapses to the single diagonal
	// segment from (0,0) to (1,1)
	tr := [][]float64{{1, 0, 1, 0}}
	scores := [][]float64{{0.5, 0.5, 0.5, 0.5}}
	points, err := ROC(tr, scores)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, AUC(points), 1e-12)
}

func TestROCNeedsBothClasses(t *testing.T) {
	_, err := ROC([][]float64{{1, 1}}, [][]float64{{0.5, 0.6}})
	require.Error(t, err)
}
