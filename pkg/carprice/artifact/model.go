package artifact

import (
	"fmt"
)

const (
	KindLinear       = "linear"
	KindTreeEnsemble = "tree_ensemble"
	KindTree         = "tree"
)

type modelDoc struct {
	header `yaml:",inline"`

	// linear
	Intercept    float64   `json:"intercept,omitempty" yaml:"intercept"`
	Coefficients []float64 `json:"coefficients,omitempty" yaml:"coefficients"`

	// tree_ensemble
	BaseScore float64   `json:"base_score,omitempty" yaml:"base_score"`
	Scale     *float64  `json:"scale,omitempty" yaml:"scale"`
	Trees     []treeDoc `json:"trees,omitempty" yaml:"trees"`
}

type treeDoc struct {
	Nodes []node `json:"nodes" yaml:"nodes"`
}

type node struct {
	Feature   int     `json:"feature" yaml:"feature"`
	Threshold float64 `json:"threshold" yaml:"threshold"`
	Left      int     `json:"left" yaml:"left"`
	Right     int     `json:"right" yaml:"right"`
	Value     float64 `json:"value" yaml:"value"`
}

func (n node) leaf() bool { return n.Feature < 0 }

func (d modelDoc) build() (Model, error) {
	if err := d.header.check(); err != nil {
		return nil, err
	}
	switch d.Kind {
	case KindLinear:
		return newLinearModel(d.Intercept, d.Coefficients)
	case KindTreeEnsemble:
		return newTreeEnsemble(d)
	default:
		return nil, fmt.Errorf("unknown model kind %q", d.Kind)
	}
}

// LinearModel is intercept + Σ coef·x.
type LinearModel struct {
	intercept float64
	coef      []float64
}

func newLinearModel(intercept float64, coef []float64) (*LinearModel, error) {
	if len(coef) != featureCount() {
		return nil, fmt.Errorf("linear model has %d coefficients, want %d", len(coef), featureCount())
	}
	return &LinearModel{intercept: intercept, coef: append([]float64(nil), coef...)}, nil
}

func (m *LinearModel) Predict(features []float64) (float64, error) {
	if err := checkRow(features, len(m.coef)); err != nil {
		return 0, err
	}
	out := m.intercept
	for i, x := range features {
		out += m.coef[i] * x
	}
	return out, nil
}

// TreeEnsemble is base_score + scale · Σ tree(x). With scale 1/n it is a
// random forest, with scale = learning rate a boosted ensemble.
type TreeEnsemble struct {
	baseScore float64
	scale     float64
	trees     [][]node
}

func newTreeEnsemble(d modelDoc) (*TreeEnsemble, error) {
	if len(d.Trees) == 0 {
		return nil, fmt.Errorf("tree ensemble has no trees")
	}
	scale := 1.0
	if d.Scale != nil {
		scale = *d.Scale
	}
	nFeatures := featureCount()
	trees := make([][]node, len(d.Trees))
	for t, tree := range d.Trees {
		if err := checkTree(tree.Nodes, nFeatures); err != nil {
			return nil, fmt.Errorf("tree %d: %w", t, err)
		}
		trees[t] = append([]node(nil), tree.Nodes...)
	}
	return &TreeEnsemble{baseScore: d.BaseScore, scale: scale, trees: trees}, nil
}

// checkTree requires children to come after their parent, which rules out
// cycles and guarantees every walk ends on a leaf.
func checkTree(nodes []node, nFeatures int) error {
	if len(nodes) == 0 {
		return fmt.Errorf("no nodes")
	}
	for i, n := range nodes {
		if n.leaf() {
			continue
		}
		if n.Feature >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d of %d", i, n.Feature, nFeatures)
		}
		for _, child := range []int{n.Left, n.Right} {
			if child <= i || child >= len(nodes) {
				return fmt.Errorf("node %d has child %d outside (%d, %d)", i, child, i, len(nodes))
			}
		}
	}
	return nil
}

func (m *TreeEnsemble) Predict(features []float64) (float64, error) {
	if err := checkRow(features, featureCount()); err != nil {
		return 0, err
	}
	var sum float64
	for _, tree := range m.trees {
		sum += tree[leafIndex(tree, features, nil)].Value
	}
	return m.baseScore + m.scale*sum, nil
}

// leafIndex walks tree for features. When visit is set it is called for
// every split with the feature and the parent and child indexes.
func leafIndex(tree []node, features []float64, visit func(feature, parent, child int)) int {
	i := 0
	for !tree[i].leaf() {
		n := tree[i]
		next := n.Right
		if features[n.Feature] <= n.Threshold {
			next = n.Left
		}
		if visit != nil {
			visit(n.Feature, i, next)
		}
		i = next
	}
	return i
}
