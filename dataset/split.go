package dataset

import (
	"math/rand"

	"github.com/dgryski/go-spooky"

	"github.com/beewatch/hivetune/errors"
)

// SplitType determines how examples are partitioned into train,
// validation and test sets.
type SplitType string

const (
	// RandomSplit shuffles with the run seed before partitioning.
	RandomSplit SplitType = "random"
	// HashSplit buckets each example by a hash of its image path, so
	// membership is stable across runs and independent of the seed.
	HashSplit SplitType = "hash"
)

// Split partitions examples 80/10/10. The test set is drawn first as 1/10
// of the input, then 1/9 of the remainder becomes validation. The same
// seed always produces the same partition; no example appears in more
// than one of the returned slices.
func Split(examples []Example, seed int64, st SplitType) (train, val, test []Example, err error) {
	switch st {
	case RandomSplit:
		train, val, test = randomSplit(examples, seed)
	case HashSplit:
		train, val, test = hashSplit(examples)
	default:
		return nil, nil, nil, errors.Errorf("unknown split type %q", st)
	}
	return train, val, test, nil
}

func randomSplit(examples []Example, seed int64) (train, val, test []Example) {
	shuffled := append([]Example(nil), examples...)
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	numTest := len(shuffled) / 10
	numVal := (len(shuffled) - numTest) / 9

	test = shuffled[:numTest]
	val = shuffled[numTest : numTest+numVal]
	train = shuffled[numTest+numVal:]
	return train, val, test
}

// hashSplit assigns each example to one of 90 buckets: 9 for test, 9 for
// validation, 72 for training, matching the 1/10 and 1/9-of-remainder
// ratios of the random split.
func hashSplit(examples []Example) (train, val, test []Example) {
	for _, e := range examples {
		bucket := spooky.Hash64([]byte(e.Path)) % 90
		switch {
		case bucket < 9:
			test = append(test, e)
		case bucket < 18:
			val = append(val, e)
		default:
			train = append(train, e)
		}
	}
	return train, val, test
}
