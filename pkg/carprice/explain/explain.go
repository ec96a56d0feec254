// Package explain turns explainer output for one encoded record into an
// attribution view and renders it as a force plot.
package explain

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/artifact"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/dal"
)

// ExplanationError wraps any failure while attributing or rendering.
type ExplanationError struct {
	Err error
}

func (e *ExplanationError) Error() string {
	return fmt.Sprintf("explanation: %v", e.Err)
}

func (e *ExplanationError) Unwrap() error { return e.Err }

// AttributionView is the explained prediction of one record.
type AttributionView struct {
	Baseline float64
	// Output is Baseline plus every contribution.
	Output float64
	// Rows follow the feature order of the model.
	Rows []dal.Attribution
}

// Explain runs e on rec. Errors and panics raised by the explainer are
// returned as *ExplanationError.
func Explain(e artifact.Explainer, rec dal.EncodedRecord) (view *AttributionView, err error) {
	defer func() {
		if r := recover(); r != nil {
			view, err = nil, &ExplanationError{Err: fmt.Errorf("explainer panicked: %v", r)}
		}
	}()

	if e == nil {
		return nil, &ExplanationError{Err: errors.New("no explainer loaded")}
	}

	features := rec.Features()
	attributions, baseline, err := e.Explain(features)
	if err != nil {
		return nil, &ExplanationError{Err: err}
	}
	if len(attributions) != len(features) {
		return nil, &ExplanationError{Err: fmt.Errorf("explainer returned %d attributions for %d features", len(attributions), len(features))}
	}
	if !finite(baseline) {
		return nil, &ExplanationError{Err: fmt.Errorf("explainer returned baseline %v", baseline)}
	}

	view = &AttributionView{Baseline: baseline, Output: baseline, Rows: make([]dal.Attribution, len(features))}
	for i, a := range attributions {
		if !finite(a) {
			return nil, &ExplanationError{Err: fmt.Errorf("attribution for %s is %v", dal.FeatureNames[i], a)}
		}
		view.Rows[i] = dal.Attribution{Feature: dal.FeatureNames[i], Value: features[i], Contribution: a}
		view.Output += a
	}
	return view, nil
}

// Ranked returns the rows ordered by descending contribution magnitude.
func (v *AttributionView) Ranked() []dal.Attribution {
	out := append([]dal.Attribution(nil), v.Rows...)
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Contribution) > math.Abs(out[j].Contribution)
	})
	return out
}

// DTO converts the view to its JSON form.
func (v *AttributionView) DTO() *dal.Explanation {
	return &dal.Explanation{
		Baseline:     v.Baseline,
		Output:       v.Output,
		Attributions: append([]dal.Attribution(nil), v.Rows...),
	}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
