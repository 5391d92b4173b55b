package training

import (
	"fmt"

	"github.com/beewatch/hivetune/errors"
)

// Backbone identifies the pretrained feature extractor whose classifier
// head gets replaced and fine-tuned by the training worker.
type Backbone string

const (
	// DenseNet201 ...
	DenseNet201 Backbone = "densenet201"
	// EfficientNetB0 ...
	EfficientNetB0 Backbone = "efficientnet_b0"
	// ResNet18 ...
	ResNet18 Backbone = "resnet18"
)

// Backbones lists every supported backbone.
var Backbones = []Backbone{DenseNet201, EfficientNetB0, ResNet18}

// BackboneFromName resolves a backbone by name.
func BackboneFromName(name string) (Backbone, error) {
	for _, b := range Backbones {
		if string(b) == name {
			return b, nil
		}
	}
	return "", errors.Errorf("unknown backbone %q", name)
}

// MustBackboneFromName is BackboneFromName for static names.
func MustBackboneFromName(name string) Backbone {
	b, err := BackboneFromName(name)
	if err != nil {
		panic(fmt.Sprintf("training: %v", err))
	}
	return b
}
