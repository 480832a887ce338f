package qlearning

import (
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samuelfneumann/gridtransfer/agent"
	"github.com/samuelfneumann/gridtransfer/agent/learningrate"
	"github.com/samuelfneumann/gridtransfer/agent/linear/discrete/policy"
	"github.com/samuelfneumann/gridtransfer/environment/gridworld"
	"github.com/samuelfneumann/gridtransfer/environment/wrappers"
	"github.com/samuelfneumann/gridtransfer/gridmap"
	"github.com/samuelfneumann/gridtransfer/utils/matutils"
	"github.com/samuelfneumann/gridtransfer/utils/matutils/initializers/weights"
	"gonum.org/v1/gonum/mat"
)

// newCorridor returns a tabular 1 x 3 corridor: start, empty, goal
func newCorridor(t *testing.T, cutoff int) *wrappers.Tabular {
	t.Helper()

	g, err := gridmap.Parse(strings.NewReader("2 0 3\n"))
	if err != nil {
		t.Fatal(err)
	}
	task, err := gridworld.NewGoal(g, cutoff)
	if err != nil {
		t.Fatal(err)
	}
	gw, _, err := gridworld.New(g, task, 0, 0.9, 0)
	if err != nil {
		t.Fatal(err)
	}
	tab, _, err := wrappers.NewTabular(gw, 20)
	if err != nil {
		t.Fatal(err)
	}
	return tab
}

func constantConfig(lr float64) Config {
	return Config{
		Epsilon:      0.0,
		LearningRate: lr,
		DecayMode:    learningrate.ConstantMode,
	}
}

func right() *mat.VecDense {
	return mat.NewVecDense(1, []float64{float64(gridworld.Right)})
}

func TestUpdate(t *testing.T) {
	env := newCorridor(t, 100)
	q, err := New(env, constantConfig(0.5), weights.NewZero(), 1)
	if err != nil {
		t.Fatal(err)
	}
	w := q.Weights()[policy.WeightsKey]

	step, err := env.Reset()
	if err != nil {
		t.Fatal(err)
	}
	q.ObserveFirst(step)

	// (0, 0) -> (0, 1): target = -0.001 + 0.9 * 0
	step, _, _ = env.Step(right())
	q.Observe(right(), step)
	if err := q.Step(); err != nil {
		t.Fatal(err)
	}
	if v := w.At(gridworld.Right, 0); math.Abs(v-0.5*gridworld.StepReward) > 1e-12 {
		t.Errorf("step: want weight %v, have %v", 0.5*gridworld.StepReward, v)
	}

	// (0, 1) -> goal: terminal, so no bootstrapping
	w.Set(gridworld.Up, 2, 10)
	step, last, _ := env.Step(right())
	if !last {
		t.Fatal("step: episode should end at the goal")
	}
	q.Observe(right(), step)
	if err := q.Step(); err != nil {
		t.Fatal(err)
	}
	if v := w.At(gridworld.Right, 1); math.Abs(v-0.5) > 1e-12 {
		t.Errorf("step: want weight 0.5 without bootstrapping, have %v", v)
	}
}

func TestTimeoutBootstraps(t *testing.T) {
	env := newCorridor(t, 1)
	q, _ := New(env, constantConfig(1.0), weights.NewZero(), 1)
	w := q.Weights()[policy.WeightsKey]
	w.Set(gridworld.Up, 1, 2.0)
	w.Set(gridworld.Right, 0, 0.0)

	step, _ := env.Reset()
	q.ObserveFirst(step)

	step, last, _ := env.Step(right())
	if !last || step.Terminal() {
		t.Fatal("step: episode should time out without terminating")
	}
	q.Observe(right(), step)
	q.Step()

	// target = -0.001 + 0.9 * 2
	want := gridworld.StepReward + 0.9*2.0
	if v := w.At(gridworld.Right, 0); math.Abs(v-want) > 1e-12 {
		t.Errorf("step: want weight %v, have %v", want, v)
	}
}

func TestStepWithoutTransition(t *testing.T) {
	env := newCorridor(t, 10)
	q, _ := New(env, constantConfig(0.1), weights.NewZero(), 1)

	step, _ := env.Reset()
	q.ObserveFirst(step)
	if err := q.Step(); err == nil {
		t.Error("step: expected error before any transition is observed")
	}
	if err := q.Observe(mat.NewVecDense(2, nil), step); err == nil {
		t.Error("observe: expected error for 2-dimensional action")
	}
}

func TestTraces(t *testing.T) {
	env := newCorridor(t, 100)
	config := constantConfig(1.0)
	config.Lambda = 0.5
	q, err := New(env, config, weights.NewZero(), 1)
	if err != nil {
		t.Fatal(err)
	}
	w := q.Weights()[policy.WeightsKey]

	// Make Right greedy everywhere so that traces are kept
	for col := 0; col < 3; col++ {
		w.Set(gridworld.Right, col, 0.01)
	}

	step, _ := env.Reset()
	q.ObserveFirst(step)

	step, _, _ = env.Step(right())
	q.Observe(right(), step)
	q.Step()
	first := w.At(gridworld.Right, 0)

	step, _, _ = env.Step(right())
	q.Observe(right(), step)
	q.Step()

	// The goal reward also reaches the first state through its trace
	if w.At(gridworld.Right, 0) <= first {
		t.Errorf("step: trace should propagate goal reward to the start, "+
			"weight went from %v to %v", first, w.At(gridworld.Right, 0))
	}
}

func TestTracesCutByExploration(t *testing.T) {
	env := newCorridor(t, 100)
	config := constantConfig(1.0)
	config.Lambda = 0.5
	q, err := New(env, config, weights.NewZero(), 1)
	if err != nil {
		t.Fatal(err)
	}
	w := q.Weights()[policy.WeightsKey]

	// Right is greedy in the start state, Up is greedy in the middle
	w.Set(gridworld.Right, 0, 0.01)
	w.Set(gridworld.Up, 1, 0.5)

	step, _ := env.Reset()
	q.ObserveFirst(step)

	step, _, _ = env.Step(right())
	q.Observe(right(), step)
	q.Step()

	// target = -0.001 + 0.9 * 0.5
	first := w.At(gridworld.Right, 0)
	if want := gridworld.StepReward + 0.45; math.Abs(first-want) > 1e-12 {
		t.Fatalf("step: want weight %v, have %v", want, first)
	}

	// Moving right from the middle is exploratory, so the goal reward
	// must not reach the start state
	step, _, _ = env.Step(right())
	q.Observe(right(), step)
	q.Step()

	if v := w.At(gridworld.Right, 0); v != first {
		t.Errorf("step: exploratory action changed the start state's "+
			"weight from %v to %v", first, v)
	}
	if v := w.At(gridworld.Right, 1); math.Abs(v-1.0) > 1e-12 {
		t.Errorf("step: want weight 1 for the exploratory action, have %v",
			v)
	}
}

func TestPolicySetWeightsStaysInSync(t *testing.T) {
	env := newCorridor(t, 100)
	q, _ := New(env, constantConfig(0.5), weights.NewZero(), 1)
	p := q.Policy.(*policy.EGreedy)

	values := mat.NewDense(gridworld.NumActions, 3, nil)
	values.Set(gridworld.Up, 1, 0.2)
	if err := p.SetWeights(map[string]*mat.Dense{
		policy.WeightsKey: values,
	}); err != nil {
		t.Fatal(err)
	}
	if p.Weights()[policy.WeightsKey] != q.Weights()[policy.WeightsKey] {
		t.Fatal("setWeights: policy and learner no longer share weights")
	}

	step, _ := env.Reset()
	q.ObserveFirst(step)
	step, _, _ = env.Step(right())
	q.Observe(right(), step)
	q.Step()

	// target = -0.001 + 0.9 * 0.2, seen by the policy
	want := 0.5 * (gridworld.StepReward + 0.9*0.2)
	if v := p.Weights()[policy.WeightsKey].At(gridworld.Right, 0); math.Abs(v-want) > 1e-12 {
		t.Errorf("step: policy sees weight %v, want %v", v, want)
	}
}

func TestSetWeights(t *testing.T) {
	env := newCorridor(t, 10)
	q, _ := New(env, Default(), weights.NewZero(), 1)

	values := mat.NewDense(gridworld.NumActions, 3, nil)
	values.Set(1, 1, 7)
	if err := q.SetWeights(map[string]*mat.Dense{
		policy.WeightsKey: values,
	}); err != nil {
		t.Fatal(err)
	}
	if !mat.Equal(q.Weights()[policy.WeightsKey], values) {
		t.Error("setWeights: weights not copied")
	}

	// The learner holds a copy, not the argument matrix
	values.Set(1, 1, -7)
	if q.Weights()[policy.WeightsKey].At(1, 1) != 7 {
		t.Error("setWeights: learner aliases the argument weights")
	}

	err := q.SetWeights(map[string]*mat.Dense{
		policy.WeightsKey: mat.NewDense(gridworld.NumActions, 9, nil),
	})
	if !errors.Is(err, agent.ErrIncompatibleWeights) {
		t.Errorf("setWeights: want ErrIncompatibleWeights, have %v", err)
	}

	// Initializing from weights of another shape fails at construction
	_, err = New(env, Default(), weights.NewCopy(mat.NewDense(4, 9, nil)), 1)
	if !errors.Is(err, agent.ErrIncompatibleWeights) {
		t.Errorf("new: want ErrIncompatibleWeights, have %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	env := newCorridor(t, 10)
	init := weights.NewCopy(mat.NewDense(gridworld.NumActions, 3, []float64{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
		10, 11, 12,
	}))
	q, err := New(env, Default(), init, 1)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "weights.bin")
	if err := q.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := matutils.LoadWeights(path)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.Equal(loaded[policy.WeightsKey], q.Weights()[policy.WeightsKey]) {
		t.Error("load: loaded weights differ from saved weights")
	}
}

func TestConfig(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("validate: default config invalid: %v", err)
	}

	bad := []Config{
		{Epsilon: -1, LearningRate: 0.1},
		{Epsilon: 0.1, LearningRate: 0},
		{Epsilon: 0.1, LearningRate: 0.1, Lambda: 2},
		{Epsilon: 0.1, LearningRate: 0.1, DecayMode: "unknown"},
	}
	for _, c := range bad {
		if err := c.Validate(); err == nil {
			t.Errorf("validate: expected error for %+v", c)
		}
	}

	if Default().Type() != agent.EGreedyQLearningLinear {
		t.Errorf("type: want %v, have %v", agent.EGreedyQLearningLinear,
			Default().Type())
	}
}
