package engine

import "fmt"

// fatalf aborts on an unusable configuration or snapshot. These are
// never recovered locally: continuing would hand corrupted trajectories
// to a training process.
func fatalf(format string, args ...any) {
	panic("engine: " + fmt.Sprintf(format, args...))
}
