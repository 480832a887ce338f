package esarsa

import (
	"math"
	"strings"
	"testing"

	"github.com/samuelfneumann/gridtransfer/agent/learningrate"
	"github.com/samuelfneumann/gridtransfer/agent/linear/discrete/policy"
	"github.com/samuelfneumann/gridtransfer/environment/gridworld"
	"github.com/samuelfneumann/gridtransfer/environment/wrappers"
	"github.com/samuelfneumann/gridtransfer/gridmap"
	"github.com/samuelfneumann/gridtransfer/utils/matutils/initializers/weights"
	"gonum.org/v1/gonum/mat"
)

func TestExpectedTarget(t *testing.T) {
	g, err := gridmap.Parse(strings.NewReader("2 0 3\n"))
	if err != nil {
		t.Fatal(err)
	}
	task, _ := gridworld.NewGoal(g, 100)
	gw, _, _ := gridworld.New(g, task, 0, 0.9, 0)
	env, step, err := wrappers.NewTabular(gw, 20)
	if err != nil {
		t.Fatal(err)
	}

	config := Config{
		BehaviourE:   0.2,
		TargetE:      0.2,
		LearningRate: 1.0,
		DecayMode:    learningrate.ConstantMode,
	}
	e, err := New(env, config, weights.NewZero(), 1)
	if err != nil {
		t.Fatal(err)
	}

	w := e.Weights()[policy.WeightsKey]
	w.Set(gridworld.Up, 1, 1.0)

	// Behaviour and target share weights
	if e.Target.(*policy.EGreedy).Weights()[policy.WeightsKey] != w {
		t.Fatal("new: target policy does not share the learner's weights")
	}

	action := mat.NewVecDense(1, []float64{float64(gridworld.Right)})
	e.ObserveFirst(step)
	step, _, _ = env.Step(action)
	e.Observe(action, step)
	if err := e.Step(); err != nil {
		t.Fatal(err)
	}

	// Expected value in (0, 1): Up has probability 0.8 + 0.05 and value 1
	want := gridworld.StepReward + 0.9*0.85
	if v := w.At(gridworld.Right, 0); math.Abs(v-want) > 1e-12 {
		t.Errorf("step: want weight %v, have %v", want, v)
	}
}
