package artifact

import "fmt"

type explainerDoc struct {
	header `yaml:",inline"`

	// linear
	ExpectedValue float64   `json:"expected_value,omitempty" yaml:"expected_value"`
	Coefficients  []float64 `json:"coefficients,omitempty" yaml:"coefficients"`
	FeatureMeans  []float64 `json:"feature_means,omitempty" yaml:"feature_means"`

	// tree
	Model *modelDoc `json:"model,omitempty" yaml:"model"`
}

func (d explainerDoc) build() (Explainer, error) {
	if err := d.header.check(); err != nil {
		return nil, err
	}
	switch d.Kind {
	case KindLinear:
		return newLinearExplainer(d)
	case KindTree:
		if d.Model == nil {
			return nil, fmt.Errorf("tree explainer has no model")
		}
		if d.Model.Kind != KindTreeEnsemble {
			return nil, fmt.Errorf("tree explainer needs a %s model, got %q", KindTreeEnsemble, d.Model.Kind)
		}
		if err := d.Model.header.check(); err != nil {
			return nil, fmt.Errorf("model: %w", err)
		}
		ens, err := newTreeEnsemble(*d.Model)
		if err != nil {
			return nil, fmt.Errorf("model: %w", err)
		}
		return &TreeExplainer{ens: ens}, nil
	default:
		return nil, fmt.Errorf("unknown explainer kind %q", d.Kind)
	}
}

// LinearExplainer attributes coef_i·(x_i − mean_i) to feature i, measured
// from the expected value of the training data.
type LinearExplainer struct {
	expected float64
	coef     []float64
	means    []float64
}

func newLinearExplainer(d explainerDoc) (*LinearExplainer, error) {
	n := featureCount()
	if len(d.Coefficients) != n {
		return nil, fmt.Errorf("linear explainer has %d coefficients, want %d", len(d.Coefficients), n)
	}
	if len(d.FeatureMeans) != n {
		return nil, fmt.Errorf("linear explainer has %d feature means, want %d", len(d.FeatureMeans), n)
	}
	return &LinearExplainer{
		expected: d.ExpectedValue,
		coef:     append([]float64(nil), d.Coefficients...),
		means:    append([]float64(nil), d.FeatureMeans...),
	}, nil
}

func (e *LinearExplainer) Explain(features []float64) ([]float64, float64, error) {
	if err := checkRow(features, len(e.coef)); err != nil {
		return nil, 0, err
	}
	out := make([]float64, len(features))
	for i, x := range features {
		out[i] = e.coef[i] * (x - e.means[i])
	}
	return out, e.expected, nil
}

// TreeExplainer credits every split on the decision path with the change in
// node value it causes. The baseline is the ensemble's root value, so the
// baseline plus all attributions is exactly the ensemble's prediction.
type TreeExplainer struct {
	ens *TreeEnsemble
}

func (e *TreeExplainer) Explain(features []float64) ([]float64, float64, error) {
	if err := checkRow(features, featureCount()); err != nil {
		return nil, 0, err
	}
	out := make([]float64, len(features))
	baseline := e.ens.baseScore
	for _, tree := range e.ens.trees {
		baseline += e.ens.scale * tree[0].Value
		leafIndex(tree, features, func(feature, parent, child int) {
			out[feature] += e.ens.scale * (tree[child].Value - tree[parent].Value)
		})
	}
	return out, baseline, nil
}
