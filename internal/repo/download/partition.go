package download

import "errors"

// ErrInvalidConcurrency is returned when the worker count is not positive.
var ErrInvalidConcurrency = errors.New("concurrency must be greater than zero")

// Partition splits files into n contiguous batches whose sizes differ by at
// most one; the first len(files)%n batches carry the extra file. When n
// exceeds len(files) the trailing batches are empty.
func Partition(files []string, n int) ([][]string, error) {
	if n <= 0 {
		return nil, ErrInvalidConcurrency
	}

	batches := make([][]string, n)
	size, extra := len(files)/n, len(files)%n
	start := 0
	for i := range batches {
		end := start + size
		if i < extra {
			end++
		}
		batches[i] = files[start:end:end]
		start = end
	}
	return batches, nil
}
