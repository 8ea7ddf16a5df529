package artifact

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	domain "github.com/okian/perfscore/internal/domain/model"
	"github.com/okian/perfscore/internal/domain/scoring"
)

// estimator evaluates one aligned feature row.
type estimator interface {
	predict(x []float64) float64
}

// Model is a loaded artifact. It is immutable after Load and safe for
// concurrent use.
type Model struct {
	path     string
	loadedAt time.Time
	name     string
	features []string
	trees    int
	metadata map[string]string
	est      estimator // nil when the estimator has no prediction capability
}

var _ scoring.Predictor = (*Model)(nil)

// Info describes a loaded artifact.
type Info struct {
	Path         string            `json:"path"`
	Estimator    string            `json:"estimator"`
	FeatureNames []string          `json:"feature_names"`
	Trees        int               `json:"trees,omitempty"`
	CanPredict   bool              `json:"can_predict"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LoadedAt     time.Time         `json:"loaded_at"`
}

func newModel(path string, doc *document, loadedAt time.Time) *Model {
	m := &Model{
		path:     path,
		loadedAt: loadedAt,
		name:     doc.Estimator,
		features: slices.Clone(doc.FeatureNames),
		trees:    len(doc.Trees),
		metadata: maps.Clone(doc.Metadata),
	}
	switch doc.Estimator {
	case EstimatorLinear:
		m.est = linear{intercept: doc.Intercept, coef: slices.Clone(doc.Coefficients)}
	case EstimatorTree:
		m.est = tree{nodes: slices.Clone(doc.Trees[0].Nodes)}
	case EstimatorForest:
		f := make(forest, len(doc.Trees))
		for i, t := range doc.Trees {
			f[i] = tree{nodes: slices.Clone(t.Nodes)}
		}
		m.est = f
	}
	return m
}

// Name returns the estimator name recorded in the artifact.
func (m *Model) Name() string { return m.name }

// Info returns a description of the artifact.
func (m *Model) Info() Info {
	return Info{
		Path:         m.path,
		Estimator:    m.name,
		FeatureNames: slices.Clone(m.features),
		Trees:        m.trees,
		CanPredict:   m.est != nil,
		Metadata:     maps.Clone(m.metadata),
		LoadedAt:     m.loadedAt,
	}
}

// Predict aligns rec with the artifact's feature names and evaluates it.
func (m *Model) Predict(ctx context.Context, rec domain.Record) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if m.est == nil {
		return 0, fmt.Errorf("%w: '%s' estimator has no predict operation", scoring.ErrCapability, m.name)
	}
	x, err := m.align(rec)
	if err != nil {
		return 0, err
	}
	return m.est.predict(x), nil
}

// align orders the record's values by the artifact's feature names. Every
// model feature must be provided and every record column must be known.
func (m *Model) align(rec domain.Record) ([]float64, error) {
	row := rec.Row()
	x := make([]float64, len(m.features))
	var missing []string
	for i, name := range m.features {
		v, ok := row[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		x[i] = v
		delete(row, name)
	}
	if len(missing) > 0 || len(row) > 0 {
		unseen := slices.Sorted(maps.Keys(row))
		return nil, fmt.Errorf("%w: missing [%s], unseen at fit time [%s]",
			scoring.ErrFeatureMismatch, strings.Join(missing, ", "), strings.Join(unseen, ", "))
	}
	return x, nil
}

type linear struct {
	intercept float64
	coef      []float64
}

func (l linear) predict(x []float64) float64 {
	y := l.intercept
	for i, c := range l.coef {
		y += c * x[i]
	}
	return y
}

type tree struct {
	nodes []treeNode
}

// predict walks from the root. Load guarantees children point forward, so
// the walk always reaches a leaf.
func (t tree) predict(x []float64) float64 {
	idx := 0
	for {
		n := t.nodes[idx]
		if n.Leaf {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
}

type forest []tree

func (f forest) predict(x []float64) float64 {
	var sum float64
	for _, t := range f {
		sum += t.predict(x)
	}
	return sum / float64(len(f))
}
