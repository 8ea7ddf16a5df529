package artifact_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/okian/perfscore/internal/adapters/artifact"
	"github.com/okian/perfscore/internal/domain/model"
	"github.com/okian/perfscore/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

var sample = model.Record{
	TasksCompleted:     10,
	TaskCompletionRate: 80,
	AttendanceRate:     95,
	LeavesTaken:        0,
	TrainingHours:      5,
}

func writeArtifact(content string) string {
	dir, err := os.MkdirTemp("", "perfscore-artifact-*")
	if err != nil {
		panic(err)
	}
	path := filepath.Join(dir, "model.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		panic(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	Convey("Given the artifact loader", t, func() {
		ctx := context.Background()

		Convey("When the file does not exist", func() {
			m, err := artifact.Load(ctx, filepath.Join(os.TempDir(), "perfscore-does-not-exist.json"))

			Convey("Then it reports a missing artifact", func() {
				So(m, ShouldBeNil)
				So(errors.Is(err, artifact.ErrArtifactMissing), ShouldBeTrue)
				So(errors.Is(err, fs.ErrNotExist), ShouldBeTrue)
				So(errors.Is(err, artifact.ErrArtifactCorrupt), ShouldBeFalse)
			})
		})

		Convey("When the file is truncated JSON", func() {
			m, err := artifact.Load(ctx, "testdata/truncated.json")

			Convey("Then it reports a corrupt artifact", func() {
				So(m, ShouldBeNil)
				So(errors.Is(err, artifact.ErrArtifactCorrupt), ShouldBeTrue)
			})
		})

		Convey("When the path is a directory", func() {
			_, err := artifact.Load(ctx, "testdata")

			Convey("Then it reports a corrupt artifact", func() {
				So(errors.Is(err, artifact.ErrArtifactCorrupt), ShouldBeTrue)
			})
		})

		Convey("When the artifact is structurally invalid", func() {
			cases := map[string]string{
				"missing estimator":     `{"feature_names": ["Tasks Completed"]}`,
				"no features":           `{"estimator": "linear_regression", "coefficients": []}`,
				"coefficient mismatch":  `{"estimator": "linear_regression", "feature_names": ["a", "b"], "coefficients": [1]}`,
				"duplicate feature":     `{"estimator": "linear_regression", "feature_names": ["a", "a"], "coefficients": [1, 1]}`,
				"tree count":            `{"estimator": "decision_tree_regressor", "feature_names": ["a"], "trees": []}`,
				"empty forest":          `{"estimator": "random_forest_regressor", "feature_names": ["a"]}`,
				"empty tree":            `{"estimator": "random_forest_regressor", "feature_names": ["a"], "trees": [{"nodes": []}]}`,
				"feature out of range":  `{"estimator": "decision_tree_regressor", "feature_names": ["a"], "trees": [{"nodes": [{"feature": 3, "left": 1, "right": 2}, {"leaf": true}, {"leaf": true}]}]}`,
				"backward child":        `{"estimator": "decision_tree_regressor", "feature_names": ["a"], "trees": [{"nodes": [{"feature": 0, "left": 0, "right": 1}, {"leaf": true}]}]}`,
				"child past the end":    `{"estimator": "decision_tree_regressor", "feature_names": ["a"], "trees": [{"nodes": [{"feature": 0, "left": 1, "right": 5}, {"leaf": true}]}]}`,
				"wrong type for values": `{"estimator": "linear_regression", "feature_names": "a"}`,
			}
			for name, content := range cases {
				path := writeArtifact(content)
				_, err := artifact.Load(ctx, path)
				_ = os.RemoveAll(filepath.Dir(path))

				Convey("Then "+name+" is corrupt", func() {
					So(errors.Is(err, artifact.ErrArtifactCorrupt), ShouldBeTrue)
				})
			}
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := artifact.Load(cctx, "testdata/linear.json")

			Convey("Then loading is skipped", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestModelPredict(t *testing.T) {
	Convey("Given a linear regression artifact", t, func() {
		m, err := artifact.Load(context.Background(), "testdata/linear.json")
		So(err, ShouldBeNil)

		Convey("When predicting a record", func() {
			score, err := m.Predict(context.Background(), sample)

			Convey("Then the weighted sum is returned", func() {
				So(err, ShouldBeNil)
				So(score, ShouldAlmostEqual, 55.0, 1e-9)
			})
		})

		Convey("When predicting the same record repeatedly", func() {
			first, _ := m.Predict(context.Background(), sample)
			second, _ := m.Predict(context.Background(), sample)

			Convey("Then the score does not change", func() {
				So(second, ShouldEqual, first)
			})
		})

		Convey("When predicting concurrently", func() {
			var wg sync.WaitGroup
			scores := make([]float64, 16)
			for i := range scores {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					scores[i], _ = m.Predict(context.Background(), sample)
				}(i)
			}
			wg.Wait()

			Convey("Then every caller sees the same score", func() {
				for _, s := range scores {
					So(s, ShouldAlmostEqual, 55.0, 1e-9)
				}
			})
		})

		Convey("When describing the model", func() {
			info := m.Info()

			Convey("Then the artifact details are exposed", func() {
				So(m.Name(), ShouldEqual, artifact.EstimatorLinear)
				So(info.Estimator, ShouldEqual, artifact.EstimatorLinear)
				So(info.Path, ShouldEqual, "testdata/linear.json")
				So(info.CanPredict, ShouldBeTrue)
				So(info.FeatureNames, ShouldResemble, sample.Columns())
				So(info.Metadata["version"], ShouldEqual, "1")
				So(info.LoadedAt.IsZero(), ShouldBeFalse)
			})

			Convey("And mutating the copy leaves the model intact", func() {
				info.FeatureNames[0] = "changed"
				info.Metadata["version"] = "changed"
				So(m.Info().FeatureNames[0], ShouldEqual, "Tasks Completed")
				So(m.Info().Metadata["version"], ShouldEqual, "1")
			})
		})
	})

	Convey("Given a random forest artifact with reordered features", t, func() {
		m, err := artifact.Load(context.Background(), "testdata/forest.json")
		So(err, ShouldBeNil)

		Convey("When predicting a record", func() {
			score, err := m.Predict(context.Background(), sample)

			Convey("Then columns are aligned by name and trees are averaged", func() {
				So(err, ShouldBeNil)
				So(score, ShouldEqual, 70.0)
				So(m.Info().Trees, ShouldEqual, 2)
			})
		})

		Convey("When a split goes the other way", func() {
			score, err := m.Predict(context.Background(), sample.Set(model.TaskCompletionRate, 40).Set(model.TrainingHours, 20))

			Convey("Then the other leaves are used", func() {
				So(err, ShouldBeNil)
				So(score, ShouldEqual, 65.0)
			})
		})
	})

	Convey("Given a single decision tree artifact", t, func() {
		path := writeArtifact(`{
			"estimator": "decision_tree_regressor",
			"feature_names": ["Tasks Completed", "Task Completion Rate (%)", "Attendance Rate (%)", "Leaves Taken", "Training Hours"],
			"trees": [{"nodes": [
				{"feature": 3, "threshold": 2, "left": 1, "right": 2},
				{"leaf": true, "value": 91.5},
				{"leaf": true, "value": 48.25}
			]}]
		}`)
		defer func() { _ = os.RemoveAll(filepath.Dir(path)) }()
		m, err := artifact.Load(context.Background(), path)
		So(err, ShouldBeNil)

		Convey("Then zero leaves follows the left branch", func() {
			score, err := m.Predict(context.Background(), sample)
			So(err, ShouldBeNil)
			So(score, ShouldEqual, 91.5)
		})

		Convey("Then many leaves follows the right branch", func() {
			score, err := m.Predict(context.Background(), sample.Set(model.LeavesTaken, 7))
			So(err, ShouldBeNil)
			So(score, ShouldEqual, 48.25)
		})
	})

	Convey("Given an artifact whose estimator cannot predict", t, func() {
		m, err := artifact.Load(context.Background(), "testdata/unsupported.json")

		Convey("Then it still loads", func() {
			So(err, ShouldBeNil)
			So(m.Info().CanPredict, ShouldBeFalse)
		})

		Convey("And prediction reports a capability error", func() {
			_, err := m.Predict(context.Background(), sample)
			So(errors.Is(err, scoring.ErrCapability), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "standard_scaler")
		})
	})

	Convey("Given an artifact fitted on different features", t, func() {
		m, err := artifact.Load(context.Background(), "testdata/mismatch.json")
		So(err, ShouldBeNil)

		Convey("When predicting a record", func() {
			_, err := m.Predict(context.Background(), sample)

			Convey("Then a feature mismatch names both sides", func() {
				So(errors.Is(err, scoring.ErrFeatureMismatch), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "Overtime Hours")
				So(err.Error(), ShouldContainSubstring, "Training Hours")
			})
		})
	})
}

func TestMissingMessage(t *testing.T) {
	Convey("Given a missing artifact path", t, func() {
		Convey("Then the message names the file", func() {
			So(artifact.MissingMessage("employee_performance_model.json"), ShouldEqual,
				"Model file 'employee_performance_model.json' not found. Please ensure the model is saved correctly.")
		})
	})
}
