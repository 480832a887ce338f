// Package experiment implements functionality for running an experiment
package experiment

import (
	"github.com/samuelfneumann/gridtransfer/experiment/checkpointer"
	"github.com/samuelfneumann/gridtransfer/experiment/tracker"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments will track environment TimeSteps, caching each TimeStep
// in RAM to be later saved to disk. The Save() function
// will then take all cached data and save it to disk. This is usually
// performed after an experiment has been run. The Run() method will
// run all episodes util the maximum timestep limit is reached. The
// RunEpisode() function will run a single episode.
//
// In order to save data, Experiments use Trackers. Trackers determine
// which data generated during the experiment is saved. Experiments will
// send each TimeStep to Trackers using the Tracker's Track() method.
type Experiment interface {
	Run() error

	// RunEpisode returns whether or not the step limit was reached
	RunEpisode() (bool, error)

	// Save all tracked data to disk
	Save() error

	// Adds a new tracker.Tracker to the (possibly already running)
	// experiment. Useful if you want to track data only after a
	// specified event.
	Register(t tracker.Tracker)

	// Adds a new checkpointer.Checkpointer which is called every step
	AddCheckpointer(c checkpointer.Checkpointer)
}
