package classification

import (
	"image"

	"github.com/jonathan/challenge-solver/internal/config"
	"github.com/jonathan/challenge-solver/internal/types"
)

// Measurer computes the per-image metric for one rule family from the
// surviving shapes of an image. New rule kinds (outlier scoring, per-shape
// sub-feature counts) plug in as additional Measurer implementations; the
// segmentation and suppression stages never change.
type Measurer interface {
	Measure(gray *image.Gray, shapes []types.DetectedShape) int
}

// measurerRegistry maps rule kinds to their measurement strategy constructor.
// Kinds without an entry yield no metric, which the decision engine resolves
// to no-decision.
var measurerRegistry = map[types.RuleKind]func(cfg config.Vision) Measurer{
	types.RuleMaximum:    newEmptyCountMeasurer,
	types.RuleExactCount: newEmptyCountMeasurer,
}

// MeasurerFor returns the measurement strategy registered for a rule kind,
// or nil when the kind has none.
func MeasurerFor(kind types.RuleKind, cfg config.Vision) Measurer {
	ctor, ok := measurerRegistry[kind]
	if !ok {
		return nil
	}
	return ctor(cfg)
}

// emptyCountMeasurer counts shapes with unmarked interiors. It backs both the
// maximum and exact-count rule families.
type emptyCountMeasurer struct {
	classifier *Classifier
}

func newEmptyCountMeasurer(cfg config.Vision) Measurer {
	return &emptyCountMeasurer{classifier: New(cfg)}
}

func (m *emptyCountMeasurer) Measure(gray *image.Gray, shapes []types.DetectedShape) int {
	return m.classifier.EmptyCount(gray, shapes)
}
