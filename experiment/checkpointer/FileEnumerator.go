package checkpointer

import "fmt"

// FilenameEnumerator returns a function which will return filenames
// with a counter integer suffix. Each time the returned function is
// called, the counter is one higher than on the previous call, so
// the first call returns filename(start+1)extension. The filename
// parameter is the full filename with its path.
func FilenameEnumerator(start int, filename, extension string) func() string {
	i := start
	return func() string {
		i++
		return fmt.Sprintf("%v%v%v", filename, i, extension)
	}
}
