package artifact

import (
	"errors"
	"fmt"
)

// Estimator names understood by the loader.
const (
	EstimatorLinear = "linear_regression"
	EstimatorTree   = "decision_tree_regressor"
	EstimatorForest = "random_forest_regressor"
)

// document is the on-disk layout written by the training process.
type document struct {
	Estimator    string            `json:"estimator"`
	FeatureNames []string          `json:"feature_names"`
	Intercept    float64           `json:"intercept"`
	Coefficients []float64         `json:"coefficients"`
	Trees        []treeDocument    `json:"trees"`
	Metadata     map[string]string `json:"metadata"`
}

type treeDocument struct {
	Nodes []treeNode `json:"nodes"`
}

type treeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
	Leaf      bool    `json:"leaf"`
}

func (d *document) validate() error {
	if d.Estimator == "" {
		return errors.New("missing estimator")
	}
	if !supported(d.Estimator) {
		// Unknown estimators load but cannot predict.
		return nil
	}
	if len(d.FeatureNames) == 0 {
		return errors.New("missing feature_names")
	}
	seen := make(map[string]bool, len(d.FeatureNames))
	for _, name := range d.FeatureNames {
		if seen[name] {
			return fmt.Errorf("duplicate feature %q", name)
		}
		seen[name] = true
	}

	switch d.Estimator {
	case EstimatorLinear:
		if len(d.Coefficients) != len(d.FeatureNames) {
			return fmt.Errorf("expected %d coefficients, got %d", len(d.FeatureNames), len(d.Coefficients))
		}
	case EstimatorTree:
		if len(d.Trees) != 1 {
			return fmt.Errorf("expected exactly one tree, got %d", len(d.Trees))
		}
	case EstimatorForest:
		if len(d.Trees) == 0 {
			return errors.New("forest has no trees")
		}
	}
	for i, t := range d.Trees {
		if err := t.validate(len(d.FeatureNames)); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

func (t treeDocument) validate(features int) error {
	if len(t.Nodes) == 0 {
		return errors.New("no nodes")
	}
	for i, n := range t.Nodes {
		if n.Leaf {
			continue
		}
		if n.Feature < 0 || n.Feature >= features {
			return fmt.Errorf("node %d: feature index %d out of range", i, n.Feature)
		}
		// Children must point forward so every walk terminates.
		if n.Left <= i || n.Left >= len(t.Nodes) || n.Right <= i || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d: invalid children %d/%d", i, n.Left, n.Right)
		}
	}
	return nil
}

func supported(estimator string) bool {
	switch estimator {
	case EstimatorLinear, EstimatorTree, EstimatorForest:
		return true
	default:
		return false
	}
}
