// Package analysis provides the high-level orchestration of a challenge pass:
// rule interpretation, concurrent per-image analysis, and the final decision.
package analysis

import (
	"context"
	"image"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/challenge-solver/internal/classification"
	"github.com/jonathan/challenge-solver/internal/config"
	"github.com/jonathan/challenge-solver/internal/decision"
	"github.com/jonathan/challenge-solver/internal/instruction"
	"github.com/jonathan/challenge-solver/internal/segmentation"
	"github.com/jonathan/challenge-solver/internal/suppression"
	"github.com/jonathan/challenge-solver/internal/types"
	"github.com/jonathan/challenge-solver/internal/vision"
)

// Outcome bundles everything one analysis pass produces.
type Outcome struct {
	Rule     types.Rule             `json:"rule"`
	Results  []types.PerImageResult `json:"results"`
	Decision types.Decision         `json:"decision"`
}

// imageAnalyzer runs the per-image pipeline and returns the shape total and
// the rule metric. Swappable for tests.
type imageAnalyzer func(img image.Image, kind types.RuleKind) (totalShapes, metric int)

// Orchestrator fans per-image analysis out concurrently and joins the ordered
// results before deciding. Images share nothing but the read-only config, so
// the fan-out needs no synchronization beyond the join.
type Orchestrator struct {
	cfg      config.Vision
	verbose  bool
	analyze  imageAnalyzer
	fallback RuleFallback
}

// RuleFallback reinterprets instruction markup the grammar classified as
// unknown, typically by asking an LLM.
type RuleFallback func(ctx context.Context, markup string) (types.Rule, error)

// WithRuleFallback installs a second-chance interpreter for unknown rules.
func (o *Orchestrator) WithRuleFallback(fb RuleFallback) *Orchestrator {
	o.fallback = fb
	return o
}

// New creates an Orchestrator with the given pipeline parameters.
func New(cfg config.Vision, verbose bool) *Orchestrator {
	o := &Orchestrator{cfg: cfg, verbose: verbose}
	o.analyze = o.analyzeImage
	return o
}

// Analyze solves one challenge: it interprets the instruction markup once,
// analyzes every candidate image concurrently, and invokes the decision
// engine exactly once over the ordered results.
//
// A single image's pipeline failure degrades to a zero result for that index;
// the batch always completes and the result list always has one entry per
// input image, in input order.
func (o *Orchestrator) Analyze(ctx context.Context, markup string, images []image.Image) Outcome {
	rule := instruction.Interpret(markup)
	if rule.Kind == types.RuleUnknown && o.fallback != nil {
		if reinterpreted, err := o.fallback(ctx, markup); err == nil {
			reinterpreted.NormalizedText = rule.NormalizedText
			rule = reinterpreted
		} else if o.verbose {
			log.Printf("[VERBOSE] Rule fallback failed: %v", err)
		}
	}
	if o.verbose {
		log.Printf("[VERBOSE] Interpreted rule: kind=%s target=%d text=%q", rule.Kind, rule.Target, rule.NormalizedText)
	}

	results := make([]types.PerImageResult, len(images))
	g, _ := errgroup.WithContext(ctx)
	for i, img := range images {
		g.Go(func() error {
			results[i] = o.analyzeOne(i, img, rule.Kind)
			return nil
		})
	}
	// The group never carries an error: every per-image failure is degraded
	// in analyzeOne, and the decision must only ever run over a full batch.
	_ = g.Wait()

	return Outcome{
		Rule:     rule,
		Results:  results,
		Decision: decision.Decide(rule, results),
	}
}

// analyzeOne guards one per-image pipeline run. Panics inside the vision
// stack (corrupt surfaces, degenerate geometry) degrade to a zero result so
// one malformed candidate never blocks the rest of the batch.
func (o *Orchestrator) analyzeOne(index int, img image.Image, kind types.RuleKind) (result types.PerImageResult) {
	result = types.PerImageResult{Index: index}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("image %d: analysis failed: %v", index, r)
			result = types.PerImageResult{Index: index}
		}
	}()

	total, metric := o.analyze(img, kind)
	result.TotalShapes = total
	result.Metric = metric
	return result
}

// analyzeImage is the production per-image pipeline:
// segmentation -> duplicate suppression -> rule-specific measurement.
func (o *Orchestrator) analyzeImage(img image.Image, kind types.RuleKind) (int, int) {
	gray := vision.ToGray(img)
	if gray == nil || gray.Bounds().Dx() == 0 || gray.Bounds().Dy() == 0 {
		return 0, 0
	}

	shapes := segmentation.New(o.cfg).SegmentGray(gray)
	shapes = suppression.Suppress(shapes, o.cfg.OverlapFactor)

	metric := 0
	if measurer := classification.MeasurerFor(kind, o.cfg); measurer != nil {
		metric = measurer.Measure(gray, shapes)
	}
	return len(shapes), metric
}
