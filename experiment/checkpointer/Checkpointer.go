// Package checkpointer implements checkpointing of objects, such as
// agent weights, during an experiment
package checkpointer

// Serializable is an object that can be saved to a file
type Serializable interface {
	Save(path string) error
}

// Checkpointer checkpoints/saves serializable objects as an experiment
// progresses
type Checkpointer interface {
	// Checkpoint is called once per experiment step and saves the
	// tracked object when a checkpoint is due
	Checkpoint() error
}
