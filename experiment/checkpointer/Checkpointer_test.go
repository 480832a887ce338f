package checkpointer

import (
	"reflect"
	"testing"
)

type recorder struct {
	saved []string
}

func (r *recorder) Save(path string) error {
	r.saved = append(r.saved, path)
	return nil
}

func TestNStep(t *testing.T) {
	r := &recorder{}
	c, err := NewNStep(3, r, FilenameEnumerator(0, "dir/001-weights", ".bin"))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		if err := c.Checkpoint(); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"dir/001-weights1.bin", "dir/001-weights2.bin",
		"dir/001-weights3.bin"}
	if !reflect.DeepEqual(r.saved, want) {
		t.Errorf("checkpoint: want %v, have %v", want, r.saved)
	}

	if _, err := NewNStep(0, r, nil); err == nil {
		t.Error("newNStep: expected error for zero interval")
	}
}
