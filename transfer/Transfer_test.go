package transfer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/gridtransfer/agent/linear/discrete/policy"
	"github.com/samuelfneumann/gridtransfer/experiment"
	"github.com/samuelfneumann/gridtransfer/utils/matutils"
	. "github.com/smartystreets/goconvey/convey"
	"gonum.org/v1/gonum/mat"
)

const (
	sourceMap = "2 0 0\n0 1 0\n0 0 3\n"
	targetMap = "2 0 4\n0 0 0\n1 0 3\n"
	largeMap  = "2 0 0 0\n0 0 0 0\n0 0 0 3\n"
)

func writeMap(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(t *testing.T, steps int) experiment.Config {
	t.Helper()
	c := experiment.Default()
	c.MaxSteps = steps
	c.ResultsDir = t.TempDir()
	c.Plot = false
	c.EnvConf.EpisodeCap = 50
	c.ChecksPerPolicy = 2
	c.EvaluationTrials = 3
	c.Seed = 7
	return c
}

func TestRunTransfer(t *testing.T) {
	Convey("Given a source and a target map of equal size", t, func() {
		dir := t.TempDir()
		source := writeMap(t, dir, "source.txt", sourceMap)
		target := writeMap(t, dir, "target.txt", targetMap)

		Convey("When the experiment runs for 0 steps", func() {
			cfg := testConfig(t, 0)
			result, err := RunTransfer(cfg, 1, source, target, nil)
			So(err, ShouldBeNil)

			Convey("The learned weights are the zero initial weights", func() {
				w := result.Learned[policy.WeightsKey]
				So(w, ShouldNotBeNil)
				So(mat.Equal(w, mat.NewDense(w.RawMatrix().Rows,
					w.RawMatrix().Cols, nil)), ShouldBeTrue)
			})

			Convey("The transfer run starts from the learned weights", func() {
				So(matutils.EqualWeights(result.Transfer.Agent.Weights(),
					result.Learned), ShouldBeTrue)
			})

			Convey("Each phase saves results under its run ID", func() {
				for _, phase := range []Phase{PhaseSource, PhaseNoTransfer,
					PhaseTransfer} {
					path := filepath.Join(TargetDir(cfg.ResultsDir, 1, target),
						experimentResults(phase.RunID()))
					_, err := os.Stat(path)
					So(err, ShouldBeNil)
				}
			})
		})

		Convey("When the source agent is trained", func() {
			cfg := testConfig(t, 300)
			result, err := RunTransfer(cfg, 2, source, target, nil)
			So(err, ShouldBeNil)

			Convey("The learned weights do not share memory with the source",
				func() {
					learned := result.Learned[policy.WeightsKey]
					before := learned.At(0, 0)
					result.Source.Agent.Weights()[policy.WeightsKey].Set(0, 0,
						before+1)
					So(learned.At(0, 0), ShouldEqual, before)
				})

			Convey("The learned weights are non-zero and differ from the "+
				"weights learned without transfer", func() {
				learned := result.Learned[policy.WeightsKey]
				So(mat.Norm(learned, 1), ShouldBeGreaterThan, 0)
				So(matutils.EqualWeights(result.Learned,
					result.NoTransfer.Agent.Weights()), ShouldBeFalse)
			})

			Convey("A run built from the learned weights starts from a copy "+
				"of them", func() {
				exp, err := Build(cfg, 2, PhaseTransfer.RunID(), target,
					result.Learned)
				So(err, ShouldBeNil)

				w := exp.Agent.Weights()[policy.WeightsKey]
				learned := result.Learned[policy.WeightsKey]
				So(mat.Equal(w, learned), ShouldBeTrue)
				So(w, ShouldNotPointTo, learned)
			})

			Convey("Only the source run learns before transfer", func() {
				So(result.Source.Steps(), ShouldEqual, 300)
				So(result.Transfer.Steps(), ShouldEqual, 300)
				So(result.NoTransfer.Steps(), ShouldEqual, 300)
			})
		})
	})

	Convey("Given maps of different sizes", t, func() {
		dir := t.TempDir()
		source := writeMap(t, dir, "source.txt", sourceMap)
		target := writeMap(t, dir, "large.txt", largeMap)

		Convey("Transferring between them fails", func() {
			cfg := testConfig(t, 0)
			_, err := RunTransfer(cfg, 1, source, target, nil)
			So(errors.Is(err, ErrIncompatibleWeights), ShouldBeTrue)
		})
	})

	Convey("Given a missing source map", t, func() {
		cfg := testConfig(t, 0)
		_, err := RunTransfer(cfg, 1, "no-such-map.txt", "no-such-map.txt",
			nil)
		So(err, ShouldNotBeNil)
	})
}

func TestBuild(t *testing.T) {
	Convey("Given initial weights without the weights key", t, func() {
		dir := t.TempDir()
		path := writeMap(t, dir, "map.txt", sourceMap)
		cfg := testConfig(t, 0)

		_, err := Build(cfg, 1, 1, path, map[string]*mat.Dense{
			"other": mat.NewDense(1, 1, nil),
		})
		So(errors.Is(err, ErrIncompatibleWeights), ShouldBeTrue)
	})

	Convey("Given non-zero initial weights", t, func() {
		dir := t.TempDir()
		path := writeMap(t, dir, "map.txt", sourceMap)
		cfg := testConfig(t, 0)

		// 4 actions x 9 cells
		w := mat.NewDense(4, 9, nil)
		for i := 0; i < 4; i++ {
			for j := 0; j < 9; j++ {
				w.Set(i, j, float64(i*9+j)/10)
			}
		}

		exp, err := Build(cfg, 1, 3, path, map[string]*mat.Dense{
			policy.WeightsKey: w,
		})
		So(err, ShouldBeNil)

		Convey("The agent starts from a copy of them", func() {
			got := exp.Agent.Weights()[policy.WeightsKey]
			So(mat.Equal(got, w), ShouldBeTrue)
			So(got, ShouldNotPointTo, w)

			w.Set(0, 0, -100)
			So(got.At(0, 0), ShouldEqual, 0)
		})
	})

	Convey("Given checkpointing is enabled", t, func() {
		dir := t.TempDir()
		path := writeMap(t, dir, "map.txt", sourceMap)
		cfg := testConfig(t, 10)
		cfg.CheckpointEvery = 1

		exp, err := Build(cfg, 1, 1, path, nil)
		So(err, ShouldBeNil)
		So(exp.Run(), ShouldBeNil)

		Convey("Weights are saved after each step", func() {
			w, err := matutils.LoadWeights(filepath.Join(exp.Path(),
				"001-weights-1.bin"))
			So(err, ShouldBeNil)
			So(w[policy.WeightsKey], ShouldNotBeNil)
		})
	})
}

func TestTransferRatio(t *testing.T) {
	Convey("Given equal evaluation scores", t, func() {
		ratio, err := TransferRatio(-0.25, -0.25)
		So(err, ShouldBeNil)
		So(ratio, ShouldEqual, 1.0)
	})

	Convey("Given a zero baseline", t, func() {
		_, err := TransferRatio(0.5, 0)
		So(errors.Is(err, ErrZeroBaseline), ShouldBeTrue)
	})

	Convey("Given a better score with transfer", t, func() {
		ratio, err := TransferRatio(0.8, 0.4)
		So(err, ShouldBeNil)
		So(ratio, ShouldAlmostEqual, 2.0)
	})
}

func TestRunBatch(t *testing.T) {
	Convey("Given a directory of target maps", t, func() {
		dir := t.TempDir()
		source := writeMap(t, t.TempDir(), "source.txt", sourceMap)
		writeMap(t, dir, "grid1.txt", targetMap)
		writeMap(t, dir, "grid0.txt", sourceMap)
		writeMap(t, dir, "notes.md", "not a map")

		cfg := testConfig(t, 0)
		ratios, err := RunBatch(cfg, 3, source, dir, nil)

		Convey("One ratio is computed per map, in filename order", func() {
			So(err, ShouldBeNil)
			So(len(ratios), ShouldEqual, 2)
			So(filepath.Base(ratios[0].Target), ShouldEqual, "grid0.txt")
			So(filepath.Base(ratios[1].Target), ShouldEqual, "grid1.txt")
		})

		Convey("The runs of every target are kept", func() {
			for _, name := range []string{"grid0.txt", "grid1.txt"} {
				for _, phase := range []Phase{PhaseSource, PhaseNoTransfer,
					PhaseTransfer} {
					path := filepath.Join(TargetDir(cfg.ResultsDir, 3, name),
						experimentResults(phase.RunID()))
					_, err := os.Stat(path)
					So(err, ShouldBeNil)
				}
			}
		})

		Convey("Each ratio is the quotient of the evaluation scores", func() {
			for _, r := range ratios {
				So(r.Value, ShouldAlmostEqual,
					r.WithTransfer/r.WithoutTransfer)
			}
		})
	})

	Convey("Given a directory with an incompatible map", t, func() {
		dir := t.TempDir()
		source := writeMap(t, t.TempDir(), "source.txt", sourceMap)
		writeMap(t, dir, "grid0.txt", targetMap)
		writeMap(t, dir, "grid1.txt", largeMap)

		cfg := testConfig(t, 0)
		ratios, err := RunBatch(cfg, 4, source, dir, nil)

		Convey("The ratios before the failure are returned", func() {
			So(errors.Is(err, ErrIncompatibleWeights), ShouldBeTrue)
			So(len(ratios), ShouldEqual, 1)
		})
	})

	Convey("Given a missing directory", t, func() {
		_, err := RunBatch(testConfig(t, 0), 1, "source.txt", "no-such-dir",
			nil)
		So(err, ShouldNotBeNil)
	})
}

func experimentResults(runID int) string {
	return fmt.Sprintf(experiment.ResultsFormat, runID)
}
