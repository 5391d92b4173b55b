package transform

import (
	"fmt"

	"github.com/beewatch/hivetune/errors"
)

// Variant names an augmentation pipeline applied by the training worker
// when it builds the training data loader. The pipeline itself lives in
// the worker; the driver only selects it by name.
type Variant string

const (
	// Baseline resizes and normalizes without any randomized perturbation.
	Baseline Variant = "baseline"
	// TrivialAugment applies a randomized perturbation on top of the
	// baseline pipeline.
	TrivialAugment Variant = "trivial_augment"
)

// Variants lists every known pipeline variant.
var Variants = []Variant{Baseline, TrivialAugment}

// FromName resolves a variant by name. Names persisted in a best-params
// record pass through here on retrain, so an unknown name fails loudly
// instead of silently falling back to the baseline pipeline.
func FromName(name string) (Variant, error) {
	for _, v := range Variants {
		if string(v) == name {
			return v, nil
		}
	}
	return "", errors.Errorf("unrecognized transform %q", name)
}

// MustFromName is FromName for static variant names.
func MustFromName(name string) Variant {
	v, err := FromName(name)
	if err != nil {
		panic(fmt.Sprintf("transform: %v", err))
	}
	return v
}
