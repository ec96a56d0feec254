// Package artifact loads the persisted regression model and its paired
// explainer. Both are decoded once at startup and are read-only afterwards,
// so a loaded Model or Explainer is safe for concurrent use.
package artifact

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/dal"
)

// FormatVersion is the only artifact format this build understands.
const FormatVersion = 1

// Model predicts a price from one encoded feature row.
type Model interface {
	Predict(features []float64) (float64, error)
}

// Explainer attributes one prediction to its features.
type Explainer interface {
	Explain(features []float64) (attributions []float64, baseline float64, err error)
}

// LoadError reports an artifact that could not be turned into a handle.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load artifact %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads the model and explainer artifacts.
func Load(modelPath, explainerPath string) (Model, Explainer, error) {
	model, err := LoadModel(modelPath)
	if err != nil {
		return nil, nil, err
	}
	explainer, err := LoadExplainer(explainerPath)
	if err != nil {
		return nil, nil, err
	}
	return model, explainer, nil
}

// LoadModel reads a model artifact.
func LoadModel(path string) (Model, error) {
	var doc modelDoc
	if err := decodeFile(path, &doc); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	m, err := doc.build()
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return m, nil
}

// LoadExplainer reads an explainer artifact.
func LoadExplainer(path string) (Explainer, error) {
	var doc explainerDoc
	if err := decodeFile(path, &doc); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	e, err := doc.build()
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return e, nil
}

func decodeFile(path string, v interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("decode yaml: %w", err)
		}
		if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
			return errors.New("decode yaml: unexpected second document")
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("decode json: %w", err)
		}
		if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
			return errors.New("decode json: trailing data after document")
		}
	}
	return nil
}

type header struct {
	FormatVersion int      `json:"format_version" yaml:"format_version"`
	Kind          string   `json:"kind" yaml:"kind"`
	FeatureNames  []string `json:"feature_names" yaml:"feature_names"`
}

func (h header) check() error {
	if h.FormatVersion != FormatVersion {
		return fmt.Errorf("unsupported format_version %d, want %d", h.FormatVersion, FormatVersion)
	}
	if len(h.FeatureNames) != len(dal.FeatureNames) {
		return fmt.Errorf("feature_names has %d entries, want %d", len(h.FeatureNames), len(dal.FeatureNames))
	}
	for i, name := range dal.FeatureNames {
		if h.FeatureNames[i] != name {
			return fmt.Errorf("feature_names[%d] is %q, want %q", i, h.FeatureNames[i], name)
		}
	}
	return nil
}

func checkRow(features []float64, n int) error {
	if len(features) != n {
		return fmt.Errorf("expected %d features, got %d", n, len(features))
	}
	return nil
}

func featureCount() int { return len(dal.FeatureNames) }
