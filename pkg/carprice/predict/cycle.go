package predict

import (
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/artifact"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/dal"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/encoder"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/explain"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/metrics"
)

// State is a terminal state of one branch of the cycle
type State string

const (
	StateEncodingFailed    State = "encoding_failed"
	StateEncoded           State = "encoded"
	StatePredictionFailed  State = "prediction_failed"
	StatePredicted         State = "predicted"
	StateExplanationFailed State = "explanation_failed"
	StateExplained         State = "explained"
	// StateSkipped marks a branch that did not run.
	StateSkipped State = "skipped"
)

// DefaultPlotHeight is the force plot height when none is configured.
const DefaultPlotHeight = 200

// Outcome is everything one interaction produced.
type Outcome struct {
	Record  dal.CarRecord
	Encoded dal.EncodedRecord

	Encoding    State
	EncodingErr error

	Prediction    State
	Price         float64
	PredictionErr error

	Explanation    State
	View           *explain.AttributionView
	Plot           template.HTML
	ExplanationErr error
}

// Cycle runs encode, predict and, on request, explain for one record.
// The model and explainer are shared read-only between concurrent runs.
type Cycle struct {
	model      artifact.Model
	explainer  artifact.Explainer
	plotHeight int
	log        *zap.Logger
}

// NewCycle returns a cycle over the loaded artifacts.
func NewCycle(model artifact.Model, explainer artifact.Explainer, plotHeight int, log *zap.Logger) *Cycle {
	if plotHeight <= 0 {
		plotHeight = DefaultPlotHeight
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Cycle{model: model, explainer: explainer, plotHeight: plotHeight, log: log}
}

// Run executes one interaction. The prediction branch always runs after a
// successful encoding; the explanation branch runs when wantExplanation is
// set, whatever the prediction branch produced.
func (c *Cycle) Run(rec dal.CarRecord, wantExplanation bool) Outcome {
	start := time.Now()
	defer func() {
		metrics.CycleDuration.WithLabelValues(strconv.FormatBool(wantExplanation)).Observe(time.Since(start).Seconds())
	}()

	out := Outcome{Record: rec, Prediction: StateSkipped, Explanation: StateSkipped}

	encoded, err := encoder.Encode(rec)
	if err != nil {
		out.Encoding, out.EncodingErr = StateEncodingFailed, err
		metrics.CyclesTotal.WithLabelValues(string(out.Encoding)).Inc()
		c.log.Warn("encoding failed", zap.Error(err))
		return out
	}
	out.Encoding, out.Encoded = StateEncoded, encoded
	metrics.CyclesTotal.WithLabelValues(string(out.Encoding)).Inc()

	out.Price, out.PredictionErr = Predict(c.model, encoded)
	if out.PredictionErr != nil {
		out.Prediction = StatePredictionFailed
		c.log.Error("prediction failed", zap.Error(out.PredictionErr), zap.Any("encoded", encoded))
	} else {
		out.Prediction = StatePredicted
		c.log.Debug("predicted", zap.Float64("price", out.Price))
	}
	metrics.PredictionsTotal.WithLabelValues(string(out.Prediction)).Inc()

	if wantExplanation {
		out.View, out.Plot, out.ExplanationErr = c.explain(encoded)
		if out.ExplanationErr != nil {
			out.Explanation = StateExplanationFailed
			c.log.Error("explanation failed", zap.Error(out.ExplanationErr), zap.Any("encoded", encoded))
		} else {
			out.Explanation = StateExplained
		}
		metrics.ExplanationsTotal.WithLabelValues(string(out.Explanation)).Inc()
	}

	return out
}

func (c *Cycle) explain(encoded dal.EncodedRecord) (*explain.AttributionView, template.HTML, error) {
	view, err := explain.Explain(c.explainer, encoded)
	if err != nil {
		return nil, "", err
	}
	plot, err := explain.RenderForcePlot(view, c.plotHeight)
	if err != nil {
		return nil, "", err
	}
	return view, plot, nil
}

// Cause returns the message of the failure underneath a service error, the
// text shown to the user.
func Cause(err error) string {
	if err == nil {
		return ""
	}
	var (
		pe *PredictionError
		ee *explain.ExplanationError
	)
	switch {
	case errors.As(err, &pe):
		return pe.Err.Error()
	case errors.As(err, &ee):
		return ee.Err.Error()
	}
	return err.Error()
}

// PriceMessage renders a price in the form shown under the form.
func PriceMessage(price float64) string {
	return fmt.Sprintf("Predicted Price: ₹%s Lakhs", FormatLakhs(price))
}
